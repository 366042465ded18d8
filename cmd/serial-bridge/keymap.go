package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrKeymapLine = errors.New("bad keymap line")

// LoadKeymap reads one "keycode:note" per line. A negative note is a
// controller number toggled by the key.
func LoadKeymap(filename string) (map[int]int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseKeymap(file)
}

func ParseKeymap(r io.Reader) (map[int]int, error) {
	keymap := map[int]int{}
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s := strings.Split(line, ":")
		if len(s) != 2 {
			return nil, fmt.Errorf("%w %d: %q", ErrKeymapLine, n, line)
		}
		key, err1 := strconv.Atoi(strings.TrimSpace(s[0]))
		val, err2 := strconv.Atoi(strings.TrimSpace(s[1]))
		if err := errors.Join(err1, err2); err != nil {
			return nil, fmt.Errorf("%w %d: %w", ErrKeymapLine, n, err)
		}
		if key < 0 || key > 255 || val < -127 || val > 127 {
			return nil, fmt.Errorf("%w %d: out of range", ErrKeymapLine, n)
		}
		keymap[key] = val
	}
	return keymap, scanner.Err()
}
