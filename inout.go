package lazydi

import (
	"github.com/junioryono/lazydi/internal/reflection"
)

// In marks a parameter object. When a constructor registered with AsClass
// accepts a single struct with embedded In, every exported field is read
// from the constructor's view:
//   - `name:"db.connect"` - path to read (default: the field name with a lower-case first letter)
//   - `optional:"true"` - a missing value leaves the field at its zero value
//   - `inject:"-"` - the field is not touched
//
// Example:
//
//	type RepoParams struct {
//	    lazydi.In
//
//	    DB     *sql.DB       `name:"db.connect"`
//	    Logger Logger        `optional:"true"`
//	    Nested *lazydi.View  `name:"settings"`
//	}
//
//	func NewRepo(p RepoParams) *Repo {
//	    return &Repo{db: p.DB}
//	}
//
// The In struct must be embedded anonymously and the parameter passed by value:
//
//	type RepoParams struct {
//	    lazydi.In  // ✓ Correct - anonymous embedding
//	    // ...
//	}
//
//	type RepoParams struct {
//	    In lazydi.In  // ✗ Wrong - named field
//	    // ...
//	}
type In = reflection.In
