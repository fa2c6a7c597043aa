package app

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"ludocash/internal/ports"
)

func isNotFound(err error) bool {
	return errors.Is(err, ports.ErrNotFound)
}

// newRoomID generates a unique room identifier.
func newRoomID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		panic("room id: crypto source unavailable: " + err.Error())
	}
	return "room_" + ts + "_" + hex.EncodeToString(buf)
}

// roomCode is the short human-facing form of a room id used in ledger
// descriptions.
func roomCode(roomID string) string {
	if len(roomID) <= 6 {
		return strings.ToUpper(roomID)
	}
	return strings.ToUpper(roomID[len(roomID)-6:])
}

// platformFee computes the fee taken from a pot, rounded to the nearest
// whole rupee.
func platformFee(pot int64, feePercent float64) int64 {
	return int64(math.Round(float64(pot) * feePercent / 100))
}
