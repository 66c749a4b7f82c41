package surrealdb

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewID_RecordIDSafe(t *testing.T) {
	id := newID()
	assert.Len(t, id, 32)
	assert.NotContains(t, id, "-")
	assert.NotEqual(t, id, newID())
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, isNotFoundError(errors.New("record not found")))
	assert.True(t, isNotFoundError(errors.New("Not Found")))
	assert.False(t, isNotFoundError(errors.New("connection refused")))
	assert.False(t, isNotFoundError(nil))
}

func TestCuratedRow_ToModel(t *testing.T) {
	now := time.Now()
	row := curatedRow{
		UID:       "abc123",
		Ticker:    "NVDA",
		Notes:     "ai leader",
		Position:  2,
		CreatedAt: now,
		UpdatedAt: now,
	}

	stock := row.toModel()
	assert.Equal(t, "abc123", stock.ID)
	assert.Equal(t, "NVDA", stock.Ticker)
	assert.Equal(t, "ai leader", stock.Notes)
	assert.Equal(t, 2, stock.Position)
	assert.Equal(t, now, stock.CreatedAt)
}

func TestThesisRow_ToModel(t *testing.T) {
	now := time.Now()
	row := thesisRow{UID: "t1", StockID: "abc123", Content: "strong moat", CreatedAt: now}

	entry := row.toModel()
	assert.Equal(t, "t1", entry.ID)
	assert.Equal(t, "abc123", entry.StockID)
	assert.Equal(t, "strong moat", entry.Content)
	assert.Equal(t, now, entry.CreatedAt)
}
