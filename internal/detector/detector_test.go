package detector

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestHandLandmarks_Snapshot(t *testing.T) {
	t.Run("projects to pixels in landmark order", func(t *testing.T) {
		hand := OpenPalmLandmarks()

		snap := hand.Snapshot(640, 480)

		if len(snap) != NumLandmarks {
			t.Fatalf("expected %d landmarks, got %d", NumLandmarks, len(snap))
		}
		for i, lm := range snap {
			if lm.ID != i {
				t.Errorf("landmark %d has ID %d", i, lm.ID)
			}
		}

		wrist := snap[Wrist]
		if wrist.X != 320 || wrist.Y != 384 {
			t.Errorf("expected wrist at (320,384), got (%d,%d)", wrist.X, wrist.Y)
		}
	})

	t.Run("truncates toward zero", func(t *testing.T) {
		hand := HandLandmarks{}
		hand.Points[IndexTip] = Point3D{X: 0.999, Y: 0.001}

		snap := hand.Snapshot(100, 100)

		if snap[IndexTip].X != 99 || snap[IndexTip].Y != 0 {
			t.Errorf("expected (99,0), got (%d,%d)", snap[IndexTip].X, snap[IndexTip].Y)
		}
	})

	t.Run("nil hand returns nil", func(t *testing.T) {
		var hand *HandLandmarks
		if snap := hand.Snapshot(640, 480); snap != nil {
			t.Errorf("expected nil snapshot, got %v", snap)
		}
	})
}

func TestSnapshot_Present(t *testing.T) {
	var empty Snapshot
	if empty.Present() {
		t.Error("empty snapshot should not be present")
	}

	hand := FistLandmarks()
	if !hand.Snapshot(640, 480).Present() {
		t.Error("projected hand should be present")
	}
}

func TestSnapshot_Distance(t *testing.T) {
	snap := make(Snapshot, NumLandmarks)
	snap[ThumbTip] = Landmark{ID: ThumbTip, X: 10, Y: 10}
	snap[IndexTip] = Landmark{ID: IndexTip, X: 13, Y: 14}

	d := snap.Distance(ThumbTip, IndexTip)
	if math.Abs(d-5.0) > epsilon {
		t.Errorf("expected distance 5, got %f", d)
	}

	if back := snap.Distance(IndexTip, ThumbTip); math.Abs(back-d) > epsilon {
		t.Errorf("distance should be symmetric, got %f and %f", d, back)
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{FistLandmarks(), OpenPalmLandmarks()})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
		if mock.Calls() != 1 {
			t.Errorf("expected 1 call, got %d", mock.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{FistLandmarks()})

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestPoseLandmarks(t *testing.T) {
	tests := []struct {
		name    string
		hand    HandLandmarks
		thumb   bool
		fingers [4]bool
	}{
		{"fist", FistLandmarks(), false, [4]bool{false, false, false, false}},
		{"open palm", OpenPalmLandmarks(), true, [4]bool{true, true, true, true}},
		{"hang loose", HangLooseLandmarks(), true, [4]bool{false, false, false, true}},
		{"rock on", RockOnLandmarks(), false, [4]bool{true, false, false, true}},
		{"pointing", PointingLandmarks(), false, [4]bool{true, false, false, false}},
		{"peace", PeaceLandmarks(), false, [4]bool{true, true, false, false}},
		{"gun", GunLandmarks(), true, [4]bool{true, false, false, false}},
	}

	tips := [4]int{IndexTip, MiddleTip, RingTip, PinkyTip}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := tt.hand.Snapshot(640, 480)

			thumbOut := snap[ThumbTip].X > snap[ThumbIP].X
			if thumbOut != tt.thumb {
				t.Errorf("thumb extended = %v, want %v", thumbOut, tt.thumb)
			}

			for i, tip := range tips {
				up := snap[tip].Y < snap[tip-2].Y
				if up != tt.fingers[i] {
					t.Errorf("finger %d extended = %v, want %v", i+1, up, tt.fingers[i])
				}
			}
		})
	}
}

func TestParseServiceResponse(t *testing.T) {
	t.Run("decodes complete hands", func(t *testing.T) {
		points := make([]byte, 0, 512)
		points = append(points, '[')
		for i := 0; i < NumLandmarks; i++ {
			if i > 0 {
				points = append(points, ',')
			}
			points = append(points, []byte(`{"x":0.5,"y":0.25,"z":0}`)...)
		}
		points = append(points, ']')
		line := `{"hands":[{"handedness":"Left","score":0.9,"points":` + string(points) + `}]}`

		hands, err := parseServiceResponse([]byte(line))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
		if hands[0].Handedness != "Left" {
			t.Errorf("expected handedness Left, got %s", hands[0].Handedness)
		}
		if hands[0].Points[PinkyTip].Y != 0.25 {
			t.Errorf("expected pinky tip y 0.25, got %f", hands[0].Points[PinkyTip].Y)
		}
	})

	t.Run("drops incomplete hands", func(t *testing.T) {
		line := `{"hands":[{"handedness":"Right","score":0.9,"points":[{"x":0.1,"y":0.1,"z":0}]}]}`

		hands, err := parseServiceResponse([]byte(line))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected incomplete hand to be dropped, got %d hands", len(hands))
		}
	})

	t.Run("rejects invalid json", func(t *testing.T) {
		if _, err := parseServiceResponse([]byte("not json")); err == nil {
			t.Error("expected error for invalid json")
		}
	})
}
