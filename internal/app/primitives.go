package app

import (
	"fmt"
	"strings"

	"github.com/vk/rtnet/internal/registry"
)

// ListPrimitives writes every registered kind with its ports and
// parameters.
func (a *App) ListPrimitives() error {
	for _, kind := range a.registry.Kinds() {
		d, err := a.registry.Describe(kind)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.outW, formatDescription(d))
	}
	return nil
}

func formatDescription(d *registry.Description) string {
	var sb strings.Builder
	sb.WriteString(d.Kind)
	for _, in := range d.Inputs {
		flag := ""
		switch {
		case in.Optional:
			flag = "?"
		case in.Default:
			flag = "="
		}
		fmt.Fprintf(&sb, "\n  in  %s%s %s", in.Name, flag, in.Type)
	}
	for _, out := range d.Outputs {
		fmt.Fprintf(&sb, "\n  out %s %s", out.Name, out.Type)
	}
	for _, p := range d.Params {
		fmt.Fprintf(&sb, "\n  param %s %s = %v", p.Name, p.Type.FriendlyName(), p.Default)
	}
	return sb.String()
}
