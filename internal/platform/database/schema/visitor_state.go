// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns used by hand-written SQL.
package schema

// VisitorStateTable represents the 'visitor_state' table
type VisitorStateTable struct {
	Table     string
	Namespace string
	Key       string
	Value     string
	ExpiresAt string
	UpdatedAt string
}

// VisitorState is the schema definition for visitor_state
var VisitorState = VisitorStateTable{
	Table:     "visitor_state",
	Namespace: "namespace",
	Key:       "key",
	Value:     "value",
	ExpiresAt: "expires_at",
	UpdatedAt: "updated_at",
}

// Columns returns all standard column names
func (t VisitorStateTable) Columns() []string {
	return []string{t.Namespace, t.Key, t.Value, t.ExpiresAt, t.UpdatedAt}
}
