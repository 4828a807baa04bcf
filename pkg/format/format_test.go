package format

import "testing"

func TestPixelFormatOrdinals(t *testing.T) {
	// ordinals are shared with native callers and must never move
	expected := []struct {
		name    string
		ordinal int
	}{
		{"rgb", 0}, {"bgr", 1}, {"argb", 2}, {"rgba", 3}, {"bgra", 4}, {"abgr", 5},
	}

	formats := PixelFormats()
	if len(formats) != len(expected) {
		t.Fatalf("Expected %d formats, got %d", len(expected), len(formats))
	}

	for i, want := range expected {
		pf := formats[i]
		if pf.String() != want.name {
			t.Errorf("Format %d: expected name %s, got %s", i, want.name, pf.String())
		}
		if pf.Ordinal() != want.ordinal {
			t.Errorf("Format %s: expected ordinal %d, got %d", want.name, want.ordinal, pf.Ordinal())
		}

		back, ok := PixelFormatFromOrdinal(want.ordinal)
		if !ok || back != pf {
			t.Errorf("PixelFormatFromOrdinal(%d) = %v, %v", want.ordinal, back, ok)
		}

		parsed, err := ParsePixelFormat(want.name)
		if err != nil || parsed != pf {
			t.Errorf("ParsePixelFormat(%q) = %v, %v", want.name, parsed, err)
		}
	}

	if _, ok := PixelFormatFromOrdinal(6); ok {
		t.Error("Ordinal 6 should not be valid")
	}
	if _, ok := PixelFormatFromOrdinal(-1); ok {
		t.Error("Ordinal -1 should not be valid")
	}
}

func TestParsePixelFormatRejectsUnknown(t *testing.T) {
	for _, name := range []string{"", "RGBA", "rgb565", "yuv"} {
		if _, err := ParsePixelFormat(name); err == nil {
			t.Errorf("Expected error for %q", name)
		}
	}
}

func TestPixelFormatLayout(t *testing.T) {
	tests := []struct {
		format     PixelFormat
		channels   int
		r, g, b, a int
	}{
		{RGB, 3, 0, 1, 2, -1},
		{BGR, 3, 2, 1, 0, -1},
		{ARGB, 4, 1, 2, 3, 0},
		{RGBA, 4, 0, 1, 2, 3},
		{BGRA, 4, 2, 1, 0, 3},
		{ABGR, 4, 3, 2, 1, 0},
	}

	for _, tt := range tests {
		if tt.format.Channels() != tt.channels {
			t.Errorf("%v: expected %d channels, got %d", tt.format, tt.channels, tt.format.Channels())
		}
		r, g, b, a := tt.format.Offsets()
		if r != tt.r || g != tt.g || b != tt.b || a != tt.a {
			t.Errorf("%v: expected offsets %d,%d,%d,%d, got %d,%d,%d,%d",
				tt.format, tt.r, tt.g, tt.b, tt.a, r, g, b, a)
		}
		if tt.format.HasAlpha() != (tt.a >= 0) {
			t.Errorf("%v: HasAlpha mismatch", tt.format)
		}
		if got := tt.format.BytesPerPixel(Uint8); got != tt.channels {
			t.Errorf("%v uint8: expected %d bytes per pixel, got %d", tt.format, tt.channels, got)
		}
		if got := tt.format.BytesPerPixel(Float32); got != tt.channels*4 {
			t.Errorf("%v float32: expected %d bytes per pixel, got %d", tt.format, tt.channels*4, got)
		}
	}
}

func TestDataType(t *testing.T) {
	if Uint8.Ordinal() != 0 || Float32.Ordinal() != 1 {
		t.Errorf("Unexpected data type ordinals: %d, %d", Uint8.Ordinal(), Float32.Ordinal())
	}

	dt, err := ParseDataType("float32")
	if err != nil || dt != Float32 {
		t.Errorf("ParseDataType(float32) = %v, %v", dt, err)
	}
	if _, err := ParseDataType("float16"); err == nil {
		t.Error("Expected error for float16")
	}

	if Uint8.BytesPerChannel() != 1 || Float32.BytesPerChannel() != 4 {
		t.Error("Unexpected bytes per channel")
	}
	if _, ok := DataTypeFromOrdinal(2); ok {
		t.Error("Ordinal 2 should not be a valid data type")
	}
}

func TestSourceLayout(t *testing.T) {
	if YUV420 != 35 || RGBA8888 != 1 {
		t.Errorf("Layout codes changed: yuv420=%d rgba8888=%d", YUV420, RGBA8888)
	}

	for _, name := range []string{"yuv", "YUV420", "yuv (4:2:0)", "i420"} {
		l, err := ParseSourceLayout(name)
		if err != nil || l != YUV420 {
			t.Errorf("ParseSourceLayout(%q) = %v, %v", name, l, err)
		}
	}
	if l, err := ParseSourceLayout("rgba8888"); err != nil || l != RGBA8888 {
		t.Errorf("ParseSourceLayout(rgba8888) = %v, %v", l, err)
	}
	if _, err := ParseSourceLayout("nv16"); err == nil {
		t.Error("Expected error for nv16")
	}

	if YUV420.Planes() != 3 || RGBA8888.Planes() != 1 || SourceLayout(7).Planes() != 0 {
		t.Error("Unexpected plane counts")
	}
	if SourceLayout(7).Valid() {
		t.Error("Layout 7 should be invalid")
	}
}

func TestFrameSizes(t *testing.T) {
	tests := []struct {
		w, h   int
		cw, ch int
		i420   int
	}{
		{640, 480, 320, 240, 640 * 480 * 3 / 2},
		{64, 64, 32, 32, 6144},
		{5, 3, 3, 2, 15 + 2*6},
		{1, 1, 1, 1, 3},
	}

	for _, tt := range tests {
		cw, ch := ChromaSize(tt.w, tt.h)
		if cw != tt.cw || ch != tt.ch {
			t.Errorf("ChromaSize(%d, %d) = %d, %d; want %d, %d", tt.w, tt.h, cw, ch, tt.cw, tt.ch)
		}
		if got := I420Size(tt.w, tt.h); got != tt.i420 {
			t.Errorf("I420Size(%d, %d) = %d; want %d", tt.w, tt.h, got, tt.i420)
		}
		if got := YUV420.FrameSize(tt.w, tt.h); got != tt.i420 {
			t.Errorf("YUV420.FrameSize(%d, %d) = %d; want %d", tt.w, tt.h, got, tt.i420)
		}
	}

	if got := RGBA8888.FrameSize(10, 10); got != 400 {
		t.Errorf("RGBA8888.FrameSize(10, 10) = %d; want 400", got)
	}
}

func TestRotation(t *testing.T) {
	tests := []struct {
		in    string
		want  Rotation
		swaps bool
	}{
		{"0deg", Rotation0, false},
		{"90deg", Rotation90, true},
		{"180deg", Rotation180, false},
		{"270deg", Rotation270, true},
	}

	for _, tt := range tests {
		r, err := ParseRotation(tt.in)
		if err != nil {
			t.Fatalf("ParseRotation(%q) failed: %v", tt.in, err)
		}
		if r != tt.want {
			t.Errorf("ParseRotation(%q) = %v; want %v", tt.in, r, tt.want)
		}
		if r.SwapsAxes() != tt.swaps {
			t.Errorf("%v: SwapsAxes() = %t", r, r.SwapsAxes())
		}
		if r.String() != tt.in {
			t.Errorf("String() = %q; want %q", r.String(), tt.in)
		}
		if r.Degrees() != int(tt.want) {
			t.Errorf("%v: Degrees() = %d", r, r.Degrees())
		}
	}

	for _, bad := range []string{"45deg", "90", "-90deg", ""} {
		if _, err := ParseRotation(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
	if Rotation(45).Valid() {
		t.Error("45 degrees should be invalid")
	}
}
