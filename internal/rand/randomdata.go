// Package rand generates random payloads for tests and fixtures.
package rand

import (
	"bytes"
	"math/rand"
	"sync"
	"time"
)

var (
	onceSource  sync.Once
	onceLetters sync.Once
	randMutex   sync.Mutex
	rgen        *rand.Rand
	letters     []byte
)

// Bytes returns a random slice of bytes
func Bytes(n int) []byte {
	onceSource.Do(seed)
	buf := make([]byte, n)
	randMutex.Lock()
	_, _ = rgen.Read(buf)
	randMutex.Unlock()
	return buf
}

// String returns a random string
func String(n int) string {
	return string(Bytes(n))
}

// LetterBytes returns a random slice of bytes picked in the [0-9]|[a-z] range
func LetterBytes(n int) []byte {
	onceLetters.Do(makeLetters)
	buf := Bytes(n)
	for i, b := range buf {
		buf[i] = letters[b]
	}
	return buf
}

// LetterString returns a random string picked in the [0-9]|[a-z] range
func LetterString(n int) string {
	return string(LetterBytes(n))
}

func seed() {
	src := rand.NewSource(time.Now().UnixNano())
	rgen = rand.New(src) // #nosec
}

func makeLetters() {
	// "a" padding covers the full uint8 range with 37x7=259 locations,
	// trading exact uniformity for a single table lookup
	letters = bytes.Repeat([]byte("abcdefghijklmnopqrstuvwxyz0123456789a"), 7)
}
