// Package storage persists room snapshots under string keys.
package storage

import "strings"

// RoomPrefix is the key prefix of every room snapshot.
const RoomPrefix = "room:"

func RoomKey(roomID string) string {
	return RoomPrefix + roomID
}

// RoomID strips the prefix from a room key.
func RoomID(key string) (string, bool) {
	return strings.CutPrefix(key, RoomPrefix)
}
