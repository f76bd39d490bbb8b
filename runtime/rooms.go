package runtime

import (
	"sync"

	"github.com/samber/lo"
)

// RoomStore maps room identifiers to member sets. Room lifetime is
// derived state: a room exists exactly while its member set is
// non-empty. The first Join creates it, the last Leave removes it.
//
// Entries live in a sync.Map so unrelated rooms never contend on a
// store-wide lock; each entry carries its own mutex for the compound
// operations (create-or-join, remove-if-last).
type RoomStore struct {
	rooms sync.Map // roomID -> *roomEntry
}

type roomEntry struct {
	mu      sync.Mutex
	members map[string]struct{}
	// removed marks an entry that lost its last member and was deleted
	// from the map. A joiner that raced the removal retries against a
	// fresh entry instead of resurrecting this one.
	removed bool
}

func NewRoomStore() *RoomStore {
	return &RoomStore{}
}

// Join atomically ensures the room exists and adds the participant.
// Safe under concurrent calls for the same room: exactly one entry is
// created and no joiner is lost.
func (s *RoomStore) Join(roomID, participantID string) {
	for {
		actual, _ := s.rooms.LoadOrStore(roomID, &roomEntry{members: make(map[string]struct{})})
		entry := actual.(*roomEntry)

		entry.mu.Lock()
		if entry.removed {
			entry.mu.Unlock()
			continue
		}
		entry.members[participantID] = struct{}{}
		entry.mu.Unlock()
		return
	}
}

// Leave removes the participant; removing the last member removes the
// room. Unknown rooms and absent members are no-ops.
func (s *RoomStore) Leave(roomID, participantID string) {
	actual, ok := s.rooms.Load(roomID)
	if !ok {
		return
	}
	entry := actual.(*roomEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	delete(entry.members, participantID)
	if len(entry.members) == 0 && !entry.removed {
		entry.removed = true
		s.rooms.Delete(roomID)
	}
}

// Members returns a point-in-time snapshot of the room's member set.
func (s *RoomStore) Members(roomID string) []string {
	actual, ok := s.rooms.Load(roomID)
	if !ok {
		return nil
	}
	entry := actual.(*roomEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return lo.Keys(entry.members)
}

// RoomsContaining scans membership for every room holding the
// participant. Linear in the number of rooms.
func (s *RoomStore) RoomsContaining(participantID string) []string {
	var res []string
	s.rooms.Range(func(key, value any) bool {
		entry := value.(*roomEntry)
		entry.mu.Lock()
		_, member := entry.members[participantID]
		entry.mu.Unlock()
		if member {
			res = append(res, key.(string))
		}
		return true
	})
	return res
}

// LeaveAll removes the participant from every room they belong to and
// returns the affected room identifiers.
func (s *RoomStore) LeaveAll(participantID string) []string {
	var affected []string
	s.rooms.Range(func(key, value any) bool {
		roomID := key.(string)
		entry := value.(*roomEntry)

		entry.mu.Lock()
		if _, member := entry.members[participantID]; member {
			delete(entry.members, participantID)
			affected = append(affected, roomID)
			if len(entry.members) == 0 && !entry.removed {
				entry.removed = true
				s.rooms.Delete(roomID)
			}
		}
		entry.mu.Unlock()
		return true
	})
	return affected
}

// Rooms returns a snapshot of all live room identifiers.
func (s *RoomStore) Rooms() []string {
	var res []string
	s.rooms.Range(func(key, _ any) bool {
		res = append(res, key.(string))
		return true
	})
	return res
}

func (s *RoomStore) Size(roomID string) int {
	actual, ok := s.rooms.Load(roomID)
	if !ok {
		return 0
	}
	entry := actual.(*roomEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return len(entry.members)
}

func (s *RoomStore) Contains(roomID, participantID string) bool {
	actual, ok := s.rooms.Load(roomID)
	if !ok {
		return false
	}
	entry := actual.(*roomEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	_, member := entry.members[participantID]
	return member
}

func (s *RoomStore) Count() int {
	count := 0
	s.rooms.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
