// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package snapshot implements the audit-trail row emitted by every
// completed write, per §4.G: one row per create/modify/delete/merge,
// carrying either the full resource or a structured diff.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"

	"github.com/yomira/booru/internal/platform/database/schema"
	"github.com/yomira/booru/internal/platform/dberr"
)

type Operation string

const (
	OperationCreated  Operation = "created"
	OperationModified Operation = "modified"
	OperationDeleted  Operation = "deleted"
	OperationMerged   Operation = "merged"
)

// Recorder inserts snapshot rows within an already-open transaction, so the
// audit entry commits atomically with the mutation it describes.
type Recorder struct {
	tx pgx.Tx
}

func NewRecorder(tx pgx.Tx) *Recorder {
	return &Recorder{tx: tx}
}

// Created records the full logical resource at creation time.
func (rec *Recorder) Created(ctx context.Context, userID *int, resourceType string, resourceID int, resourceName string, resource interface{}) error {
	return rec.write(ctx, userID, OperationCreated, resourceType, resourceID, resourceName, resource)
}

// Deleted records the full logical resource as it existed right before deletion.
func (rec *Recorder) Deleted(ctx context.Context, userID *int, resourceType string, resourceID int, resourceName string, resource interface{}) error {
	return rec.write(ctx, userID, OperationDeleted, resourceType, resourceID, resourceName, resource)
}

// Modified records a property-wise diff between the pre- and post-images.
func (rec *Recorder) Modified(ctx context.Context, userID *int, resourceType string, resourceID int, resourceName string, before, after interface{}) error {
	return rec.write(ctx, userID, OperationModified, resourceType, resourceID, resourceName, Diff(before, after))
}

// Merged records the surviving entity's (type, id).
func (rec *Recorder) Merged(ctx context.Context, userID *int, resourceType string, survivorID int, resourceName string) error {
	return rec.write(ctx, userID, OperationMerged, resourceType, survivorID, resourceName, map[string]interface{}{
		"type": resourceType,
		"id":   survivorID,
	})
}

func (rec *Recorder) write(ctx context.Context, userID *int, op Operation, resourceType string, resourceID int, resourceName string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, now())`,
		schema.Snapshot.Table,
		schema.Snapshot.UserID, schema.Snapshot.Operation, schema.Snapshot.ResourceType,
		schema.Snapshot.ResourceID, schema.Snapshot.ResourceName, schema.Snapshot.Data, schema.Snapshot.Time,
	)
	if _, err := rec.tx.Exec(ctx, query, userID, string(op), resourceType, resourceID, resourceName, payload); err != nil {
		return dberr.Wrap(err, "insert_snapshot")
	}
	return nil
}

// FieldChange describes one property's before/after state in a diff, per
// the §4.G shapes: primitive-change, list-change, added-property, deleted-property.
type FieldChange struct {
	Type    string      `json:"type"`
	Value   interface{} `json:"value,omitempty"`
	Added   interface{} `json:"added,omitempty"`
	Removed interface{} `json:"removed,omitempty"`
}

// Diff produces {type: object-change, value: {field: FieldChange}} by
// comparing exported fields of before/after via reflection. Slices are
// treated as unordered sets (added/removed), since the audit log is for
// humans inspecting recent changes, not byte-exact reconstruction.
func Diff(before, after interface{}) map[string]interface{} {
	fields := map[string]FieldChange{}
	bv := reflect.Indirect(reflect.ValueOf(before))
	av := reflect.Indirect(reflect.ValueOf(after))
	if !bv.IsValid() || !av.IsValid() || bv.Type() != av.Type() || bv.Kind() != reflect.Struct {
		return map[string]interface{}{"type": "object-change", "value": fields}
	}

	t := bv.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		bf := bv.Field(i).Interface()
		af := av.Field(i).Interface()
		if reflect.DeepEqual(bf, af) {
			continue
		}
		name := jsonFieldName(sf)
		if bv.Field(i).Kind() == reflect.Slice {
			added, removed := sliceDiff(bv.Field(i), av.Field(i))
			fields[name] = FieldChange{Type: "list-change", Added: added, Removed: removed}
			continue
		}
		fields[name] = FieldChange{Type: "primitive-change", Value: map[string]interface{}{"from": bf, "to": af}}
	}
	return map[string]interface{}{"type": "object-change", "value": fields}
}

func jsonFieldName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" || tag == "-" {
		return sf.Name
	}
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			return tag[:i]
		}
	}
	return tag
}

func sliceDiff(before, after reflect.Value) ([]interface{}, []interface{}) {
	beforeSet := map[interface{}]bool{}
	for i := 0; i < before.Len(); i++ {
		beforeSet[before.Index(i).Interface()] = true
	}
	afterSet := map[interface{}]bool{}
	for i := 0; i < after.Len(); i++ {
		afterSet[after.Index(i).Interface()] = true
	}

	var added, removed []interface{}
	for v := range afterSet {
		if !beforeSet[v] {
			added = append(added, v)
		}
	}
	for v := range beforeSet {
		if !afterSet[v] {
			removed = append(removed, v)
		}
	}
	return added, removed
}
