package glgpu

import "testing"

func TestInjectDefines(t *testing.T) {
	src := "#version 410 core\nvoid main() {}\n"
	got := injectDefines(src, map[string]string{"CASCADE_COUNT": "4", "A": "1"})
	want := "#version 410 core\n#define A 1\n#define CASCADE_COUNT 4\nvoid main() {}\n"
	if got != want {
		t.Errorf("injectDefines() = %q, want %q", got, want)
	}

	if got := injectDefines(src, nil); got != src {
		t.Errorf("no defines should leave the source unchanged, got %q", got)
	}
	if got := injectDefines("void main() {}", map[string]string{"X": "2"}); got != "#define X 2\nvoid main() {}" {
		t.Errorf("source without version = %q", got)
	}
}
