// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/pbinitiative/zenbpm-importer/internal/log"
	"github.com/rqlite/rqlite/v8/command/proto"
)

// Rows iterates over the values of a single rqlite query result.
type Rows struct {
	columns   []string
	values    []*proto.Values
	rowNumber int // -1 until Next() is called
	ctx       context.Context
}

type Row struct {
	columns []string
	values  *proto.Values
	ctx     context.Context
}

var ErrNoRows = errors.New("no result row")

func ConstructRows(ctx context.Context, result *proto.QueryRows) *Rows {
	return &Rows{
		columns:   result.GetColumns(),
		values:    result.GetValues(),
		rowNumber: -1,
		ctx:       ctx,
	}
}

// ConstructRow takes the first row of the result, Scan returns ErrNoRows when there is none.
func ConstructRow(ctx context.Context, result *proto.QueryRows) *Row {
	row := &Row{columns: result.GetColumns(), ctx: ctx}
	if values := result.GetValues(); len(values) > 0 {
		row.values = values[0]
	}
	return row
}

func (qr *Rows) Columns() []string {
	return qr.columns
}

func (qr *Rows) Len() int {
	return len(qr.values)
}

// Next positions the result pointer so that Scan() is ready.
//
//	for rows.Next() {
//	    if err := rows.Scan(&a, &b); err != nil { ... }
//	}
func (qr *Rows) Next() bool {
	if qr.rowNumber >= len(qr.values)-1 {
		return false
	}
	qr.rowNumber++
	return true
}

func (qr *Rows) Scan(dest ...any) error {
	if qr.rowNumber == -1 {
		return errors.New("scan called before next")
	}
	if qr.rowNumber >= len(qr.values) {
		return errors.New("no more rows")
	}
	return Scan(qr.ctx, qr.columns, qr.values[qr.rowNumber], dest...)
}

func (r *Row) Scan(dest ...any) error {
	if r.values == nil {
		return ErrNoRows
	}
	return Scan(r.ctx, r.columns, r.values, dest...)
}

// Value converts a single rqlite parameter to its Go value. NULL becomes nil.
func Value(p *proto.Parameter) any {
	switch x := p.GetValue().(type) {
	case *proto.Parameter_S:
		return x.S
	case *proto.Parameter_I:
		return x.I
	case *proto.Parameter_D:
		return x.D
	case *proto.Parameter_B:
		return x.B
	case *proto.Parameter_Y:
		return x.Y
	}
	return nil
}

func Scan(ctx context.Context, columns []string, values *proto.Values, dest ...any) error {
	if len(dest) != len(columns) {
		return fmt.Errorf("expected %d columns but got %d vars", len(columns), len(dest))
	}
	params := values.GetParameters()
	if len(params) != len(columns) {
		return fmt.Errorf("expected %d values but got %d", len(columns), len(params))
	}
	for n, d := range dest {
		src := Value(params[n])
		if src == nil {
			switch d := d.(type) {
			case *sql.NullString:
				*d = sql.NullString{}
			case *sql.NullInt64:
				*d = sql.NullInt64{}
			case *any:
				*d = nil
			default:
				log.Debugf(ctx, "skipping nil scan data for variable #%d (%s)", n, columns[n])
			}
			continue
		}
		if err := scanValue(src, d); err != nil {
			return fmt.Errorf("col:%d (%s): %w", n, columns[n], err)
		}
	}
	return nil
}

func scanValue(src any, dest any) error {
	switch d := dest.(type) {
	case *any:
		*d = src
	case *string:
		s, err := asString(src)
		if err != nil {
			return err
		}
		*d = s
	case *sql.NullString:
		s, err := asString(src)
		if err != nil {
			return err
		}
		*d = sql.NullString{Valid: true, String: s}
	case *int64:
		i, err := asInt(src)
		if err != nil {
			return err
		}
		*d = i
	case *int:
		i, err := asInt(src)
		if err != nil {
			return err
		}
		*d = int(i)
	case *sql.NullInt64:
		i, err := asInt(src)
		if err != nil {
			return err
		}
		*d = sql.NullInt64{Valid: true, Int64: i}
	case *float64:
		switch x := src.(type) {
		case float64:
			*d = x
		case int64:
			*d = float64(x)
		case string:
			f, err := strconv.ParseFloat(x, 64)
			if err != nil {
				return err
			}
			*d = f
		default:
			return fmt.Errorf("invalid float64 type:%T val:%v", src, src)
		}
	case *bool:
		// sqlite has no bool type, flags come back as 0/1
		switch x := src.(type) {
		case bool:
			*d = x
		case int64:
			*d = x != 0
		case string:
			b, err := strconv.ParseBool(x)
			if err != nil {
				return err
			}
			*d = b
		default:
			return fmt.Errorf("invalid bool type:%T val:%v", src, src)
		}
	case *[]byte:
		switch x := src.(type) {
		case []byte:
			*d = x
		case string:
			*d = []byte(x)
		default:
			return fmt.Errorf("invalid []byte type:%T val:%v", src, src)
		}
	default:
		return fmt.Errorf("unknown destination type (%T)", dest)
	}
	return nil
}

func asString(src any) (string, error) {
	switch x := src.(type) {
	case string:
		return x, nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case []byte:
		return string(x), nil
	}
	return "", fmt.Errorf("invalid string type:%T val:%v", src, src)
}

func asInt(src any) (int64, error) {
	switch x := src.(type) {
	case int64:
		return x, nil
	case float64:
		return int64(x), nil
	case string:
		return strconv.ParseInt(x, 10, 64)
	}
	return 0, fmt.Errorf("invalid int type:%T val:%v", src, src)
}
