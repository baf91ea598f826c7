package response_test

import (
	"testing"

	"github.com/cwbudde/algo-svf/measure/response"
)

func BenchmarkGenerate(b *testing.B) {
	s := &response.Sweep{
		StartFreqHz: 20,
		EndFreqHz:   20000,
		Duration:    1,
		SampleRate:  48000,
	}

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		if _, err := s.Generate(); err != nil {
			b.Fatalf("Generate() error = %v", err)
		}
	}
}

func BenchmarkMeasureMagnitude(b *testing.B) {
	s := &response.Sweep{
		StartFreqHz: 20,
		EndFreqHz:   20000,
		Duration:    0.25,
		SampleRate:  48000,
	}

	passThrough := response.ProcessorFunc(func([]float64) {})

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		if _, err := s.MeasureMagnitude(passThrough, 50); err != nil {
			b.Fatalf("MeasureMagnitude() error = %v", err)
		}
	}
}
