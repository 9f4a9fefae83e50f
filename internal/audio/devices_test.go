package audio

import "testing"

func TestParseDeviceList(t *testing.T) {
	output := `init: found 3 capture devices:
init:    - Capture device #0: 'MacBook Pro Microphone'
init:    - Capture device #1: 'BlackHole 2ch'
init:    - Capture device #2: 'Mic + BlackHole'
init: attempt to open default capture device ...
`
	devices := ParseDeviceList(output)
	if len(devices) != 3 {
		t.Fatalf("got %d devices, want 3", len(devices))
	}

	want := []Device{
		{ID: 0, Name: "MacBook Pro Microphone"},
		{ID: 1, Name: "BlackHole 2ch"},
		{ID: 2, Name: "Mic + BlackHole"},
	}
	for i, w := range want {
		if devices[i] != w {
			t.Errorf("device[%d] = %+v, want %+v", i, devices[i], w)
		}
	}
}

func TestParseDeviceListUnquotedName(t *testing.T) {
	devices := ParseDeviceList("init:    - Capture device #4: unnamed\n")
	if len(devices) != 1 {
		t.Fatalf("got %d devices, want 1", len(devices))
	}
	if devices[0].ID != 4 || devices[0].Name != "Device 4" {
		t.Errorf("got %+v, want fallback name", devices[0])
	}
}

func TestParseDeviceListEmpty(t *testing.T) {
	if devices := ParseDeviceList("no devices here\n"); len(devices) != 0 {
		t.Errorf("got %d devices, want 0", len(devices))
	}
}
