package app

import (
	"github.com/vk/rtnet/internal/registry"
	"github.com/vk/rtnet/modules/core"
	"github.com/vk/rtnet/modules/motion"
	"github.com/vk/rtnet/modules/world"
)

// coreModules is the definitive list of all primitive modules compiled into
// the rtnet binary.
var coreModules = []registry.Module{
	&core.Module{},
	&world.Module{},
	&motion.Module{},
}
