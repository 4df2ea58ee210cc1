package a

type App struct{}

func (App) MapGet(pattern string, handler any) {}

func (App) GET(pattern string, handlers ...any) {}

func (App) Use(pattern string, handler any) {}

const accountPath = "/accounts/{id?}"

func register(app App, dynamic string) {
	app.MapGet("/hello/{name?}", func(name string) {}) // want `parameter 'name' should be nullable to match its optional route segment`

	app.MapGet("/hello/{name?}/{title?}", func(name string, title string) {}) // want `parameter 'name' should be nullable`

	app.GET("/posts/{slug?}/{page}", func(slug, page string) {}) // want `parameter 'slug' should be nullable`

	app.GET("/tags/{a?}/{b?}", func(a, b int) {}) // want `parameter 'a' should be nullable`

	app.MapGet(accountPath, getAccount) // want `parameter 'id' should be nullable`

	app.MapGet("/hello/{name}", func(name string) {})

	app.MapGet("/hello/{name?}", func(name *string) {})

	app.MapGet("/items/{filter?}", func(filter map[string]string, tags []string) {})

	app.MapGet("/hello/{Name?}", func(name string) {})

	app.MapGet(dynamic, func(name string) {})

	app.Use("/hello/{name?}", func(name string) {})
}

func getAccount(id int) {}

// axon::controller
type UserController struct{}

// axon::route GET /users/{id?}/{format?}
func (c *UserController) GetUser(id int, format string) error { return nil } // want `parameter 'id' should be nullable`

// axon::route GET /users
func (c *UserController) ListUsers(id int) error { return nil }
