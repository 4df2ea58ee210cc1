package detector

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"sort"
	"strconv"

	"github.com/toyz/axonlint/internal/annotations"
	"github.com/toyz/axonlint/internal/models"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/ast/inspector"
)

const funcLiteral = "func literal"

// Detector recognizes route registration sites and turns them into registrations
type Detector struct {
	config      Config
	methods     map[string]bool
	annotations *annotations.Parser
}

// New creates a detector for the given configuration
func New(config Config) *Detector {
	methods := make(map[string]bool, len(config.Methods))
	for _, method := range config.Methods {
		methods[method] = true
	}
	return &Detector{
		config:      config,
		methods:     methods,
		annotations: annotations.NewParser(),
	}
}

// index holds the declarations of one package needed to resolve handlers
type index struct {
	funcs       map[types.Object]*ast.FuncDecl
	controllers map[string]*ast.TypeSpec
	methods     []*ast.FuncDecl
}

// Detect finds registrations in files. info must come from type-checking files.
func (d *Detector) Detect(fset *token.FileSet, files []*ast.File, info *types.Info) []models.Registration {
	return d.Inspect(fset, inspector.New(files), info)
}

// Inspect finds registrations using a prepared inspector, as provided to analyzers
func (d *Detector) Inspect(fset *token.FileSet, ins *inspector.Inspector, info *types.Info) []models.Registration {
	idx := d.buildIndex(ins, info)

	var registrations []models.Registration
	ins.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
		if reg, ok := d.fromCall(n.(*ast.CallExpr), info, idx); ok {
			registrations = append(registrations, reg)
		}
	})

	if d.config.Annotations {
		for _, decl := range idx.methods {
			if reg, ok := d.fromAnnotation(decl, info, idx); ok {
				registrations = append(registrations, reg)
			}
		}
	}

	for i := range registrations {
		registrations[i].File = fset.Position(registrations[i].Span.Pos).Filename
	}
	sort.SliceStable(registrations, func(i, j int) bool {
		return registrations[i].Span.Pos < registrations[j].Span.Pos
	})

	return registrations
}

func (d *Detector) buildIndex(ins *inspector.Inspector, info *types.Info) index {
	idx := index{
		funcs:       make(map[types.Object]*ast.FuncDecl),
		controllers: make(map[string]*ast.TypeSpec),
	}

	ins.Preorder([]ast.Node{(*ast.FuncDecl)(nil), (*ast.GenDecl)(nil)}, func(n ast.Node) {
		switch node := n.(type) {
		case *ast.FuncDecl:
			if info != nil {
				if obj := info.Defs[node.Name]; obj != nil {
					idx.funcs[obj] = node
				}
			}
			if node.Recv != nil && node.Doc != nil {
				idx.methods = append(idx.methods, node)
			}
		case *ast.GenDecl:
			if node.Tok != token.TYPE || !d.config.Annotations {
				return
			}
			for _, spec := range node.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				if _, ok := typeSpec.Type.(*ast.StructType); !ok {
					continue
				}
				doc := typeSpec.Doc
				if doc == nil {
					doc = node.Doc
				}
				if _, ok := d.annotations.Find(commentTexts(doc), annotations.Controller); ok {
					idx.controllers[typeSpec.Name.Name] = typeSpec
				}
			}
		}
	})

	return idx
}

// fromCall recognizes x.Method("template", ..., handler)
func (d *Detector) fromCall(call *ast.CallExpr, info *types.Info, idx index) (models.Registration, bool) {
	method := calleeName(call.Fun)
	if !d.methods[method] || len(call.Args) < 2 {
		return models.Registration{}, false
	}

	templateExpr := call.Args[0]
	template, ok := constantString(info, templateExpr)
	if !ok {
		return models.Registration{}, false
	}

	fn, name, ok := resolveHandler(astutil.Unparen(call.Args[len(call.Args)-1]), info, idx)
	if !ok {
		return models.Registration{}, false
	}

	params, ok := handlerParameters(fn, info)
	if !ok {
		return models.Registration{}, false
	}

	return models.Registration{
		Method:       method,
		Template:     template,
		TemplateSpan: models.SpanOf(templateExpr),
		Handler:      name,
		Parameters:   params,
		Span:         models.SpanOf(call),
	}, true
}

// fromAnnotation recognizes //axon::route on a method of an //axon::controller struct
func (d *Detector) fromAnnotation(decl *ast.FuncDecl, info *types.Info, idx index) (models.Registration, bool) {
	receiver := receiverName(decl)
	if _, ok := idx.controllers[receiver]; !ok {
		return models.Registration{}, false
	}

	route, comment, ok := d.findRoute(decl.Doc)
	if !ok {
		return models.Registration{}, false
	}

	params, ok := handlerParameters(decl.Type, info)
	if !ok {
		return models.Registration{}, false
	}

	return models.Registration{
		Method:       route.Method(),
		Template:     route.Path(),
		TemplateSpan: models.SpanOf(comment),
		Handler:      receiver + "." + decl.Name.Name,
		Parameters:   params,
		Span:         models.Span{Pos: decl.Type.Pos(), End: decl.Type.End()},
	}, true
}

func (d *Detector) findRoute(doc *ast.CommentGroup) (annotations.Annotation, *ast.Comment, bool) {
	if doc == nil {
		return annotations.Annotation{}, nil, false
	}
	for _, comment := range doc.List {
		if !annotations.IsAnnotation(comment.Text) {
			continue
		}
		annotation, err := d.annotations.Parse(comment.Text)
		if err == nil && annotation.Kind == annotations.Route {
			return annotation, comment, true
		}
	}
	return annotations.Annotation{}, nil, false
}

// resolveHandler returns the signature of a handler given inline or by reference
func resolveHandler(expr ast.Expr, info *types.Info, idx index) (*ast.FuncType, string, bool) {
	switch handler := expr.(type) {
	case *ast.FuncLit:
		return handler.Type, funcLiteral, true
	case *ast.Ident:
		return lookupFunc(handler, info, idx)
	case *ast.SelectorExpr:
		return lookupFunc(handler.Sel, info, idx)
	default:
		return nil, "", false
	}
}

func lookupFunc(ident *ast.Ident, info *types.Info, idx index) (*ast.FuncType, string, bool) {
	if info == nil {
		return nil, "", false
	}
	fn, ok := info.Uses[ident].(*types.Func)
	if !ok {
		return nil, "", false
	}
	decl, ok := idx.funcs[fn.Origin()]
	if !ok {
		return nil, "", false
	}
	return decl.Type, fn.Name(), true
}

func calleeName(fun ast.Expr) string {
	switch f := astutil.Unparen(fun).(type) {
	case *ast.SelectorExpr:
		return f.Sel.Name
	case *ast.Ident:
		return f.Name
	case *ast.IndexExpr:
		return calleeName(f.X)
	case *ast.IndexListExpr:
		return calleeName(f.X)
	default:
		return ""
	}
}

// constantString resolves a template argument to its constant string value
func constantString(info *types.Info, expr ast.Expr) (string, bool) {
	if info != nil {
		if tv, ok := info.Types[expr]; ok && tv.Value != nil {
			if tv.Value.Kind() != constant.String {
				return "", false
			}
			return constant.StringVal(tv.Value), true
		}
	}
	if lit, ok := astutil.Unparen(expr).(*ast.BasicLit); ok && lit.Kind == token.STRING {
		value, err := strconv.Unquote(lit.Value)
		return value, err == nil
	}
	return "", false
}

func receiverName(decl *ast.FuncDecl) string {
	if decl.Recv == nil || len(decl.Recv.List) == 0 {
		return ""
	}
	switch recv := decl.Recv.List[0].Type.(type) {
	case *ast.StarExpr:
		if ident, ok := recv.X.(*ast.Ident); ok {
			return ident.Name
		}
	case *ast.Ident:
		return recv.Name
	}
	return ""
}

func commentTexts(doc *ast.CommentGroup) []string {
	if doc == nil {
		return nil
	}
	texts := make([]string, 0, len(doc.List))
	for _, comment := range doc.List {
		texts = append(texts, comment.Text)
	}
	return texts
}
