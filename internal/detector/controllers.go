package detector

import (
	"go/ast"
	"go/token"
	"sort"

	"github.com/toyz/axonlint/internal/models"
	"golang.org/x/tools/go/ast/inspector"
)

// Controllers lists //axon::controller structs with their annotated routes
func (d *Detector) Controllers(fset *token.FileSet, files []*ast.File) []models.ControllerMetadata {
	ins := inspector.New(files)
	idx := d.buildIndex(ins, nil)

	byName := make(map[string]*models.ControllerMetadata, len(idx.controllers))
	for name, spec := range idx.controllers {
		byName[name] = &models.ControllerMetadata{
			Name:     name,
			FileName: fset.Position(spec.Pos()).Filename,
		}
	}

	for _, decl := range idx.methods {
		controller, ok := byName[receiverName(decl)]
		if !ok {
			continue
		}
		route, comment, ok := d.findRoute(decl.Doc)
		if !ok {
			continue
		}
		controller.Routes = append(controller.Routes, models.RouteMetadata{
			Method:      route.Method(),
			Path:        route.Path(),
			HandlerName: decl.Name.Name,
			Line:        fset.Position(comment.Pos()).Line,
		})
	}

	result := make([]models.ControllerMetadata, 0, len(byName))
	for _, controller := range byName {
		result = append(result, *controller)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}
