package input

import (
	"errors"
	"testing"

	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/core/mocks"
	"github.com/dkeye/ScreenShare/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestDecodeRejectsBadFrames(t *testing.T) {
	tests := []struct {
		name string
		data func(t *testing.T) []byte
	}{
		{"garbage", func(*testing.T) []byte { return []byte{0xc1} }},
		{"unknown type", func(t *testing.T) []byte {
			data, err := Encode(Event{Type: 99})
			if err != nil {
				t.Fatal(err)
			}
			return data
		}},
		{"geometry without body", func(t *testing.T) []byte {
			data, err := Encode(Event{Type: EventGeometry})
			if err != nil {
				t.Fatal(err)
			}
			return data
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data(t)); err == nil {
				t.Fatal("Decode succeeded")
			}
		})
	}
}

func TestDecodeGeometry(t *testing.T) {
	data, err := Encode(GeometryEvent(core.Geometry{Width: 1920, Height: 1080, ScaleFactor: 2}))
	if err != nil {
		t.Fatal(err)
	}
	ev, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ev.Geometry == nil || ev.Geometry.Width != 1920 || ev.Geometry.ScaleFactor != 2 {
		t.Fatalf("geometry = %+v", ev.Geometry)
	}
}

func TestDispatcherAppliesEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	adapter := mocks.NewMockInputAdapter(ctrl)
	gomock.InOrder(
		adapter.EXPECT().InjectPointerMove(10, 20).Return(nil),
		adapter.EXPECT().InjectPointerButton(10, 20, true).Return(nil),
		adapter.EXPECT().InjectKey("a", false).Return(nil),
	)

	d := NewDispatcher(adapter, "room-1")
	for _, ev := range []Event{PointerMove(10, 20), PointerButton(10, 20, true), Key("a", false)} {
		data, err := Encode(ev)
		if err != nil {
			t.Fatal(err)
		}
		d.HandleFrame(data)
	}
}

func TestDispatcherInjectionUnavailableIsNotAnError(t *testing.T) {
	d := NewDispatcher(ViewOnly{}, "room-1")
	for range 3 {
		if err := d.Apply(PointerMove(1, 1)); err != nil {
			t.Fatalf("Apply = %v, want nil", err)
		}
	}
}

func TestDispatcherPropagatesOtherErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	adapter := mocks.NewMockInputAdapter(ctrl)
	boom := errors.New("boom")
	adapter.EXPECT().InjectKey("x", true).Return(boom)

	d := NewDispatcher(adapter, domain.RoomID("room-1"))
	if err := d.Apply(Key("x", true)); !errors.Is(err, boom) {
		t.Fatalf("Apply = %v, want boom", err)
	}
}
