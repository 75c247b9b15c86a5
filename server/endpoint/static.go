package endpoint

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/errkit/errors"
)

// Static serves files from fsys for a route registered with a *filepath
// wildcard. Missing files and directories are recorded as
// *errors.NoResourceError for the resolver.
func Static(fsys http.FileSystem) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := path.Clean("/" + c.Param("filepath"))

		f, err := fsys.Open(name)
		if err != nil {
			_ = c.Error(errors.NoResource(c.Request.URL.Path))
			c.Abort()
			return
		}
		stat, err := f.Stat()
		_ = f.Close()
		if err != nil || stat.IsDir() {
			_ = c.Error(errors.NoResource(c.Request.URL.Path))
			c.Abort()
			return
		}

		c.FileFromFS(name, fsys)
	}
}
