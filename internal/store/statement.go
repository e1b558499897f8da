// Copyright 2021-present ZenBPM Contributors
// (based on git commit history).
//
// ZenBPM project is available under two licenses:
//  - SPDX-License-Identifier: AGPL-3.0-or-later (See LICENSE-AGPL.md)
//  - Enterprise License (See LICENSE-ENTERPRISE.md)

package store

import (
	ssql "database/sql"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/pbinitiative/zenbpm-importer/internal/profile"
	"github.com/rqlite/rqlite/v8/command/proto"
)

func generateStatement(logger hclog.Logger, sql string, parameters ...any) *proto.Statement {
	resultParams := make([]*proto.Parameter, 0, len(parameters))
	for _, par := range parameters {
		resultParams = append(resultParams, toParameter(logger, par))
	}
	return &proto.Statement{
		Sql:        sql,
		Parameters: resultParams,
	}
}

func toParameter(logger hclog.Logger, par any) *proto.Parameter {
	switch par := par.(type) {
	case nil:
		return &proto.Parameter{}
	case string:
		return &proto.Parameter{Value: &proto.Parameter_S{S: par}}
	case *string:
		if par == nil {
			return &proto.Parameter{}
		}
		return &proto.Parameter{Value: &proto.Parameter_S{S: *par}}
	case int64:
		return &proto.Parameter{Value: &proto.Parameter_I{I: par}}
	case int32:
		return &proto.Parameter{Value: &proto.Parameter_I{I: int64(par)}}
	case int:
		return &proto.Parameter{Value: &proto.Parameter_I{I: int64(par)}}
	case float64:
		return &proto.Parameter{Value: &proto.Parameter_D{D: par}}
	case bool:
		return &proto.Parameter{Value: &proto.Parameter_B{B: par}}
	case []byte:
		return &proto.Parameter{Value: &proto.Parameter_Y{Y: par}}
	case ssql.NullInt64:
		if !par.Valid {
			return &proto.Parameter{}
		}
		return &proto.Parameter{Value: &proto.Parameter_I{I: par.Int64}}
	case ssql.NullString:
		if !par.Valid {
			return &proto.Parameter{}
		}
		return &proto.Parameter{Value: &proto.Parameter_S{S: par.String}}
	case fmt.Stringer:
		return &proto.Parameter{Value: &proto.Parameter_S{S: par.String()}}
	default:
		logger.Error(fmt.Sprintf("Unknown parameter type: %T", par))
		if profile.Strict() {
			panic(fmt.Sprintf("Unknown parameter type: %T", par))
		}
		return &proto.Parameter{}
	}
}
