package main

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"
)

func TestParseKeymap(t *testing.T) {
	km, err := ParseKeymap(strings.NewReader("# piano\n12:60\n\n13: -7\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(km) != 2 || km[12] != 60 || km[13] != -7 {
		t.Errorf("keymap = %v", km)
	}
	for _, bad := range []string{"12", "a:60", "12:200", "300:1"} {
		if _, err := ParseKeymap(strings.NewReader(bad)); !errors.Is(err, ErrKeymapLine) {
			t.Errorf("%q: err = %v", bad, err)
		}
	}
}

func TestBridge(t *testing.T) {
	b := newBridge(map[int]int{12: 60, 13: -7}, charmlog.New(io.Discard))
	steps := []struct {
		code    int
		pressed bool
		want    []byte
	}{
		{12, true, []byte{0x90, 60, 64}},
		{12, true, nil},
		{12, false, []byte{0x80, 60, 0}},
		{13, true, []byte{0xB0, 7, 64}},
		{13, false, nil},
		{13, true, []byte{0xB0, 7, 0}},
		{40, true, nil},
	}
	for i, s := range steps {
		msg, ok := b.frame(s.code, s.pressed)
		if ok != (s.want != nil) || (ok && !bytes.Equal(msg.Bytes(), s.want)) {
			t.Errorf("step %d: got % x, %v", i, msg.Bytes(), ok)
		}
	}
}
