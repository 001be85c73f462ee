// Package batch defines the JSON documents exchanged with the planner:
// a proposal batch in, a validation result out.
package batch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"schedguard/internal/validation"
)

// File is a proposal batch as written by the planner.
type File struct {
	UserID  string              `json:"user_id"`
	Options *validation.Options `json:"options,omitempty"`
	Blocks  []BlockJSON         `json:"blocks"`
}

// BlockJSON is the wire form of one placement. Exactly one of TaskID and
// HabitID must be present. Start and End stay raw strings; the engine
// decides whether they are valid instants.
type BlockJSON struct {
	TaskID  *string `json:"task_id,omitempty"`
	HabitID *string `json:"habit_id,omitempty"`
	Title   string  `json:"title,omitempty"`
	Start   string  `json:"start"`
	End     string  `json:"end"`
}

// Batch is a decoded proposal ready for the engine.
type Batch struct {
	UserID  string
	Options *validation.Options
	Blocks  []validation.Block
}

// Decode reads a batch document. Unknown fields are rejected.
func Decode(r io.Reader) (*Batch, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("decode batch: trailing data")
	}
	if strings.TrimSpace(f.UserID) == "" {
		return nil, fmt.Errorf("decode batch: user_id is required")
	}

	blocks := make([]validation.Block, 0, len(f.Blocks))
	for i, b := range f.Blocks {
		vb, err := b.toBlock()
		if err != nil {
			return nil, fmt.Errorf("decode batch: block %d: %w", i, err)
		}
		blocks = append(blocks, vb)
	}
	return &Batch{UserID: f.UserID, Options: f.Options, Blocks: blocks}, nil
}

// DecodeFile reads a batch document from path.
func DecodeFile(path string) (*Batch, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(b))
}

func (b BlockJSON) toBlock() (validation.Block, error) {
	switch {
	case b.TaskID != nil && b.HabitID != nil:
		return nil, fmt.Errorf("both task_id and habit_id set")
	case b.TaskID != nil:
		return validation.TaskBlock{TaskID: *b.TaskID, Start: b.Start, End: b.End}, nil
	case b.HabitID != nil:
		return validation.HabitBlock{HabitID: *b.HabitID, Title: b.Title, Start: b.Start, End: b.End}, nil
	default:
		return nil, fmt.Errorf("one of task_id or habit_id is required")
	}
}

// Encode builds the wire form of blocks, the inverse of Decode.
func Encode(userID string, opt *validation.Options, blocks []validation.Block) File {
	f := File{UserID: userID, Options: opt, Blocks: make([]BlockJSON, 0, len(blocks))}
	for _, b := range blocks {
		switch v := b.(type) {
		case validation.TaskBlock:
			id := v.TaskID
			f.Blocks = append(f.Blocks, BlockJSON{TaskID: &id, Start: v.Start, End: v.End})
		case validation.HabitBlock:
			id := v.HabitID
			f.Blocks = append(f.Blocks, BlockJSON{HabitID: &id, Title: v.Title, Start: v.Start, End: v.End})
		}
	}
	return f
}

// ResultFile is the document written next to a processed batch.
type ResultFile struct {
	RunID  string            `json:"run_id"`
	UserID string            `json:"user_id"`
	Source string            `json:"source,omitempty"`
	Result validation.Result `json:"result"`
}

// WriteResult writes r as indented JSON.
func WriteResult(w io.Writer, r ResultFile) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
