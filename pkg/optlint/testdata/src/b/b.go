package b

type Mux struct{}

func (Mux) Route(pattern string, handler any) {}

func (Mux) MapGet(pattern string, handler any) {}

func register(mux Mux) {
	mux.Route("/files/{path?}", func(path string) {}) // want `parameter 'path' should be nullable`

	mux.MapGet("/files/{path?}", func(path string) {})
}
