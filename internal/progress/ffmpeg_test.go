package progress

import (
	"testing"
	"time"
)

func TestStateUpdateFromLine(t *testing.T) {
	var st State

	if _, ok := st.UpdateFromLine("frame=120", "job-1", StageProcessing, 60, "Converting"); ok {
		t.Error("non-progress key should not emit an update")
	}
	if _, ok := st.UpdateFromLine("garbage line", "job-1", StageProcessing, 60, "Converting"); ok {
		t.Error("unparsable line should not emit an update")
	}

	st.UpdateFromLine("out_time_ms=30000000", "job-1", StageProcessing, 60, "Converting")
	st.UpdateFromLine("speed=1.5x", "job-1", StageProcessing, 60, "Converting")
	st.UpdateFromLine("total_size=2048", "job-1", StageProcessing, 60, "Converting")

	u, ok := st.UpdateFromLine("progress=continue", "job-1", StageProcessing, 60, "Converting")
	if !ok {
		t.Fatal("progress marker should emit an update")
	}
	if u.Percent != 50 {
		t.Errorf("Percent = %v, want 50", u.Percent)
	}
	if u.Speed == nil || *u.Speed != "1.5x" {
		t.Errorf("Speed = %v", u.Speed)
	}
	if u.Bytes == nil || *u.Bytes != 2048 {
		t.Errorf("Bytes = %v", u.Bytes)
	}
	// 30s remaining at 1.5x leaves 20s of wall time.
	if u.ETA == nil || *u.ETA != 20*time.Second {
		t.Errorf("ETA = %v, want 20s", u.ETA)
	}
	if u.Stage != StageProcessing || u.Message != "Converting" {
		t.Errorf("update = %+v", u)
	}
}

func TestStateUpdateFromLine_UnknownDuration(t *testing.T) {
	var st State
	st.UpdateFromLine("out_time_ms=1000000", "job-1", StagePreprocessing, 0, "Normalizing")
	u, ok := st.UpdateFromLine("progress=end", "job-1", StagePreprocessing, 0, "Normalizing")
	if !ok {
		t.Fatal("progress marker should emit an update")
	}
	if u.Percent >= 0 {
		t.Errorf("Percent = %v, want negative (unknown)", u.Percent)
	}
	if u.ETA != nil {
		t.Errorf("ETA = %v, want nil without a known duration", u.ETA)
	}
}

func TestStateUpdateFromLine_ClampsOvershoot(t *testing.T) {
	var st State
	st.UpdateFromLine("out_time_ms=90000000", "job-1", StageProcessing, 60, "Converting")
	u, ok := st.UpdateFromLine("progress=continue", "job-1", StageProcessing, 60, "Converting")
	if !ok {
		t.Fatal("expected update")
	}
	if u.Percent != 100 {
		t.Errorf("Percent = %v, want clamped to 100", u.Percent)
	}
}
