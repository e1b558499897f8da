package sql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/rqlite/rqlite/v8/command/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params(values ...*proto.Parameter) *proto.Values {
	return &proto.Values{Parameters: values}
}

func TestRowsScan(t *testing.T) {
	// given
	result := &proto.QueryRows{
		Columns: []string{"key", "version", "bpmnProcessName"},
		Values: []*proto.Values{
			params(
				&proto.Parameter{Value: &proto.Parameter_S{S: "2251799813685249"}},
				&proto.Parameter{Value: &proto.Parameter_I{I: 1}},
				&proto.Parameter{Value: &proto.Parameter_S{S: "Order review"}},
			),
			params(
				&proto.Parameter{Value: &proto.Parameter_S{S: "2251799813685250"}},
				&proto.Parameter{Value: &proto.Parameter_I{I: 2}},
				&proto.Parameter{},
			),
		},
	}
	rows := ConstructRows(context.Background(), result)

	// when
	type process struct {
		key     string
		version int64
		name    sql.NullString
	}
	var got []process
	for rows.Next() {
		var p process
		require.NoError(t, rows.Scan(&p.key, &p.version, &p.name))
		got = append(got, p)
	}

	// then
	assert.Equal(t, []process{
		{key: "2251799813685249", version: 1, name: sql.NullString{Valid: true, String: "Order review"}},
		{key: "2251799813685250", version: 2},
	}, got)
	assert.False(t, rows.Next())
}

func TestRowScanNoRows(t *testing.T) {
	row := ConstructRow(context.Background(), &proto.QueryRows{Columns: []string{"resource"}})

	var resource string
	err := row.Scan(&resource)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestScanConversions(t *testing.T) {
	values := params(
		&proto.Parameter{Value: &proto.Parameter_I{I: 42}},
		&proto.Parameter{Value: &proto.Parameter_S{S: "17"}},
		&proto.Parameter{Value: &proto.Parameter_I{I: 1}},
		&proto.Parameter{Value: &proto.Parameter_D{D: 1.5}},
		&proto.Parameter{},
	)
	var (
		asText  string
		asInt   int
		asBool  bool
		asFloat float64
		asAny   any = "not nil"
	)
	err := Scan(context.Background(), []string{"a", "b", "c", "d", "e"}, values, &asText, &asInt, &asBool, &asFloat, &asAny)
	require.NoError(t, err)
	assert.Equal(t, "42", asText)
	assert.Equal(t, 17, asInt)
	assert.True(t, asBool)
	assert.Equal(t, 1.5, asFloat)
	assert.Nil(t, asAny)
}

func TestScanRejectsColumnMismatch(t *testing.T) {
	var a, b string
	err := Scan(context.Background(), []string{"a"}, params(&proto.Parameter{}), &a, &b)
	assert.Error(t, err)
}
