package repository

import "context"

// MemoryRepository answers ownership questions about memories. Memory CRUD is owned
// by another service; uploads only need to know that a memory belongs to a user.
type MemoryRepository interface {
	Owns(ctx context.Context, memoryID, userID int64) (bool, error)
}
