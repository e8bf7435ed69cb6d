package ideconfigs

import "github.com/reusee/dscope"

type Module struct {
	dscope.Module
}
