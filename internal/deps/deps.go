// Package deps lists the external programs the dashboard shells out to.
package deps

import (
	"runtime"

	"github.com/joshribakoff/bearing-tui/internal/shell"
)

type Dependency struct {
	Name       string
	Command    string
	Required   bool
	InstallCmd map[string]string
}

type MissingDep struct {
	Dependency
}

// Opener returns the command that opens a URL in the default browser on goos.
func Opener(goos string) Dependency {
	switch goos {
	case "darwin":
		return Dependency{Name: "open", Command: "open", Required: true}
	case "windows":
		return Dependency{Name: "rundll32", Command: "rundll32", Required: true}
	default:
		return Dependency{
			Name:     "xdg-open",
			Command:  "xdg-open",
			Required: true,
			InstallCmd: map[string]string{
				"linux": "sudo apt install xdg-utils",
			},
		}
	}
}

func dependencies(goos string) []Dependency {
	deps := []Dependency{Opener(goos)}
	if goos == "linux" {
		// clipboard helpers; any one of them is enough
		deps = append(deps,
			Dependency{Name: "xclip", Command: "xclip", InstallCmd: map[string]string{"linux": "sudo apt install xclip"}},
			Dependency{Name: "wl-copy", Command: "wl-copy", InstallCmd: map[string]string{"linux": "sudo apt install wl-clipboard"}},
		)
	}
	return deps
}

func Check(cmd shell.Commander) []MissingDep {
	return check(cmd, runtime.GOOS)
}

func check(cmd shell.Commander, goos string) []MissingDep {
	missing := []MissingDep{}
	for _, dep := range dependencies(goos) {
		if _, err := cmd.LookPath(dep.Command); err != nil {
			missing = append(missing, MissingDep{dep})
		}
	}
	return missing
}

func InstallHint(dep MissingDep) string {
	if cmd, ok := dep.InstallCmd[runtime.GOOS]; ok {
		return cmd
	}
	return "install " + dep.Name + " via your package manager"
}
