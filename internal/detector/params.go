package detector

import (
	"go/ast"
	"go/types"

	"github.com/toyz/axonlint/internal/models"
)

// handlerParameters converts a handler signature into parameter facts.
// It returns false when the signature has unnamed parameters, which cannot be
// correlated by name.
func handlerParameters(fn *ast.FuncType, info *types.Info) ([]models.HandlerParameter, bool) {
	if fn == nil || fn.Params == nil {
		return nil, true
	}

	var params []models.HandlerParameter
	order := 0
	for _, field := range fn.Params.List {
		if len(field.Names) == 0 {
			return nil, false
		}

		typ := typeOf(info, field.Type)
		typeText := types.ExprString(field.Type)
		for _, name := range field.Names {
			position := order
			order++
			if typ == nil {
				continue
			}
			params = append(params, models.HandlerParameter{
				Name:         name.Name,
				DeclaredType: typeText,
				TypeSpan:     models.SpanOf(field.Type),
				IsNullable:   IsNullable(typ),
				Span:         models.SpanOf(name),
				Order:        position,
			})
		}
	}

	return params, true
}

func typeOf(info *types.Info, expr ast.Expr) types.Type {
	if info == nil {
		return nil
	}
	typ := info.TypeOf(expr)
	if typ == nil {
		return nil
	}
	if basic, ok := typ.(*types.Basic); ok && basic.Kind() == types.Invalid {
		return nil
	}
	return typ
}

// IsNullable reports whether values of typ can represent absence with nil
func IsNullable(typ types.Type) bool {
	switch typ.Underlying().(type) {
	case *types.Pointer, *types.Slice, *types.Map, *types.Chan, *types.Signature, *types.Interface:
		return true
	default:
		return false
	}
}
