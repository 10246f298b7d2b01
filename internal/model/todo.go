package model

import "fmt"

// Todo is a single todo record. Field names match the persisted JSON
// document and the wire format of both the REST and MCP surfaces.
type Todo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// State is the full persisted document: the ordered todo list plus the
// counter used to mint the next id. List order is insertion order and is
// the display order everywhere.
type State struct {
	Todos  []Todo `json:"todos"`
	NextID int    `json:"nextId"`
}

// TodoID formats the id minted for counter value n.
func TodoID(n int) string {
	return fmt.Sprintf("todo-%d", n)
}
