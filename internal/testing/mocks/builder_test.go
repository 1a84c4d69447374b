package mocks

import (
	"context"
	"reflect"
	"testing"

	"github.com/AndreyAkinshin/buildall/internal/unit"
)

func TestBuilder_Defaults(t *testing.T) {
	m := NewBuilder()

	o := m.Build(context.Background(), unit.Unit{Rel: "a"})

	if !o.Success {
		t.Errorf("Build() = %+v, want success", o)
	}
	if m.BuildCount() != 1 {
		t.Errorf("BuildCount() = %d, want 1", m.BuildCount())
	}
	if m.PeakConcurrency() != 1 {
		t.Errorf("PeakConcurrency() = %d, want 1", m.PeakConcurrency())
	}
}

func TestBuilder_WithFailure(t *testing.T) {
	m := NewBuilder().WithFailure("b", 3)

	if o := m.Build(context.Background(), unit.Unit{Rel: "b"}); o.Success || o.ExitCode != 3 {
		t.Errorf("Build() = %+v, want exit code 3", o)
	}
}

func TestBuilder_WithBuildFunc(t *testing.T) {
	m := NewBuilder().WithBuildFunc(func(ctx context.Context, u unit.Unit) unit.Outcome {
		return unit.Skipped(u)
	})

	if o := m.Build(context.Background(), unit.Unit{Rel: "c"}); o.Kind != unit.FailureSkipped {
		t.Errorf("Build() = %+v, want BuildFunc result", o)
	}
}

func TestBuilder_OrderAndReset(t *testing.T) {
	m := NewBuilder()
	for _, rel := range []string{"x", "y", "z"} {
		m.Build(context.Background(), unit.Unit{Rel: rel})
	}

	if got := m.BuildOrder(); !reflect.DeepEqual(got, []string{"x", "y", "z"}) {
		t.Errorf("BuildOrder() = %v", got)
	}

	m.Reset()
	if m.BuildCount() != 0 || len(m.BuildOrder()) != 0 || m.PeakConcurrency() != 0 {
		t.Error("Reset() did not clear tracking state")
	}
}
