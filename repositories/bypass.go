// Package repositories holds the durable local state of the client core.
package repositories

import (
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/abhi21121211/roomloop-client-sub000/domain"
)

// BypassRepository persists the set of rooms whose end-of-room countdown
// the user chose to skip. Keys are "bypass:{room_id}"; the record is pure
// key presence, no payload.
type BypassRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewBypassRepository(db *badger.DB, log *slog.Logger) BypassRepository {
	return BypassRepository{db: db, log: log}
}

func bypassKey(roomID domain.RoomID) []byte {
	return []byte(fmt.Sprintf("bypass:%s", roomID))
}

func (r BypassRepository) Contains(roomID domain.RoomID) (bool, error) {
	var found bool
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(bypassKey(roomID))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("bypass lookup %s: %w", roomID, err)
	}
	return found, nil
}

func (r BypassRepository) Add(roomID domain.RoomID) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(bypassKey(roomID), nil)
	})
	if err != nil {
		return fmt.Errorf("bypass record %s: %w", roomID, err)
	}
	r.log.Debug("Bypass recorded", "room", roomID)
	return nil
}
