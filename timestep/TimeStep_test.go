package timestep

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestEndType(t *testing.T) {
	step := New(Mid, -1, 1, mat.NewVecDense(1, nil), 3)
	if step.Last() || step.Terminated() || step.Truncated() {
		t.Errorf("new mid step should not be ended, got %v", step)
	}

	// An end type without a Last step type is ignored
	step.endType = Timeout
	if step.EndType() != NotEnded {
		t.Errorf("endType: want %v, got %v", NotEnded, step.EndType())
	}

	step.SetEnd(TerminalStateReached)
	if !step.Last() {
		t.Error("setEnd: step should be last")
	}
	if !step.Terminated() || step.Truncated() {
		t.Errorf("setEnd: want terminated only, got %v", step.EndType())
	}

	step.SetEnd(Timeout)
	if step.Terminated() || !step.Truncated() {
		t.Errorf("setEnd: want truncated only, got %v", step.EndType())
	}
}

func TestStepTypeString(t *testing.T) {
	tests := map[StepType]string{First: "First", Mid: "Mid", Last: "Last"}
	for stepType, want := range tests {
		if got := stepType.String(); got != want {
			t.Errorf("string: want %v, got %v", want, got)
		}
	}
}

func TestMethodsOnReturnedValues(t *testing.T) {
	last := func(e EndType) TimeStep {
		step := New(Mid, -1, 1, mat.NewVecDense(1, nil), 7)
		step.SetEnd(e)
		return step
	}

	if !last(Timeout).Truncated() || last(Timeout).Terminated() {
		t.Errorf("want truncated only, got %v", last(Timeout).EndType())
	}
	if !last(TerminalStateReached).Terminated() ||
		!last(TerminalStateReached).Last() {
		t.Errorf("want terminated, got %v",
			last(TerminalStateReached).EndType())
	}
	if New(First, 0, 1, nil, 0).EndType() != NotEnded ||
		!New(First, 0, 1, nil, 0).First() {
		t.Error("want first step that has not ended")
	}
}
