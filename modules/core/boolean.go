package core

import (
	"github.com/vk/rtnet/internal/network"
	"github.com/vk/rtnet/internal/primitive"
	"github.com/vk/rtnet/internal/registry"
)

func registerBoolean(r *registry.Registry) {
	binaries := map[string]func(a, b bool) bool{
		"And": func(a, b bool) bool { return a && b },
		"Or":  func(a, b bool) bool { return a || b },
		"Xor": func(a, b bool) bool { return a != b },
	}
	for name, fn := range binaries {
		kind := "Core::Boolean" + name
		r.Register(kind, func() network.Primitive { return primitive.NewBinary(kind, primitive.Ok2(fn)) })
	}
	r.Register("Core::BooleanNot", func() network.Primitive {
		return primitive.NewUnary("Core::BooleanNot", primitive.Ok(func(v bool) bool { return !v }))
	})
	r.Register("Core::BooleanNaryAnd", func() network.Primitive {
		return primitive.NewNary("Core::BooleanNaryAnd", func(vs []bool) (bool, bool) {
			for _, v := range vs {
				if !v {
					return false, true
				}
			}
			return true, true
		})
	})
	r.Register("Core::BooleanNaryOr", func() network.Primitive {
		return primitive.NewNary("Core::BooleanNaryOr", func(vs []bool) (bool, bool) {
			for _, v := range vs {
				if v {
					return true, true
				}
			}
			return false, true
		})
	})
}
