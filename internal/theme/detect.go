package theme

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/ini.v1"
)

// detector reads a terminal config relative to the home directory.
type detector func(home string) (Palette, bool)

// Detect attempts to load theme from various sources in priority order:
// Alacritty, Kitty, Foot, then the built-in default. Environment overrides
// apply on top of whichever wins.
func Detect() Palette {
	home, err := os.UserHomeDir()
	if err != nil {
		return applyEnvOverrides(DefaultPalette())
	}

	for _, detect := range []detector{detectAlacritty, detectKitty, detectFoot} {
		if p, ok := detect(home); ok {
			return applyEnvOverrides(p)
		}
	}

	return applyEnvOverrides(DefaultPalette())
}

// WatchPaths lists the directories whose changes may alter the palette.
func WatchPaths(home string) []string {
	return []string{
		filepath.Join(home, ".config", "alacritty"),
		filepath.Join(home, ".config", "kitty"),
		filepath.Join(home, ".config", "foot"),
	}
}

func detectAlacritty(home string) (Palette, bool) {
	for _, path := range []string{
		filepath.Join(home, ".config", "alacritty", "alacritty.toml"),
		filepath.Join(home, ".alacritty.toml"),
	} {
		if p, ok := parseAlacrittyTOML(path); ok {
			return p, true
		}
	}
	return Palette{}, false
}

// alacrittyColors represents the relevant parts of alacritty.toml
type alacrittyColors struct {
	Colors struct {
		Primary struct {
			Background string `toml:"background"`
			Foreground string `toml:"foreground"`
		} `toml:"primary"`
		Selection struct {
			Background string `toml:"background"`
		} `toml:"selection"`
	} `toml:"colors"`
}

func parseAlacrittyTOML(path string) (Palette, bool) {
	var cfg alacrittyColors
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Palette{}, false
	}
	return fromTerminal(cfg.Colors.Primary.Background, cfg.Colors.Primary.Foreground, cfg.Colors.Selection.Background)
}

func detectKitty(home string) (Palette, bool) {
	return parseKittyConf(filepath.Join(home, ".config", "kitty", "kitty.conf"))
}

func parseKittyConf(path string) (Palette, bool) {
	f, err := os.Open(path)
	if err != nil {
		return Palette{}, false
	}
	defer f.Close()

	values := map[string]string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		values[fields[0]] = fields[1]
	}

	return fromTerminal(values["background"], values["foreground"], values["selection_background"])
}

func detectFoot(home string) (Palette, bool) {
	return parseFootINI(filepath.Join(home, ".config", "foot", "foot.ini"))
}

func parseFootINI(path string) (Palette, bool) {
	cfg, err := ini.Load(path)
	if err != nil {
		return Palette{}, false
	}

	colors := cfg.Section("colors")
	return fromTerminal(
		colors.Key("background").String(),
		colors.Key("foreground").String(),
		colors.Key("selection-background").String(),
	)
}

// fromTerminal builds a palette from a terminal's primary colors. Both bg
// and fg must parse; selection is optional and derived when missing.
func fromTerminal(bg, fg, selection string) (Palette, bool) {
	bgc, ok := parseColor(bg)
	if !ok {
		return Palette{}, false
	}
	fgc, ok := parseColor(fg)
	if !ok {
		return Palette{}, false
	}

	p := DefaultPalette()
	p.BG = bgc.Hex()
	p.FG = fgc.Hex()
	p.Muted = bgc.BlendRgb(fgc, 0.5).Hex()

	if sel, ok := parseColor(selection); ok {
		p.AccentBg = sel.Hex()
	} else {
		p.AccentBg = bgc.BlendRgb(fgc, 0.15).Hex()
	}

	return p, true
}

// parseColor accepts #RRGGBB, RRGGBB, 0xRRGGBB and #RGB.
func parseColor(s string) (colorful.Color, bool) {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	if s == "" {
		return colorful.Color{}, false
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// applyEnvOverrides applies CHANGELOG_TUI_* environment variables
func applyEnvOverrides(p Palette) Palette {
	for env, field := range map[string]*string{
		"CHANGELOG_TUI_BG":     &p.BG,
		"CHANGELOG_TUI_FG":     &p.FG,
		"CHANGELOG_TUI_MUTED":  &p.Muted,
		"CHANGELOG_TUI_ACCENT": &p.Accent,
	} {
		if c, ok := parseColor(os.Getenv(env)); ok {
			*field = c.Hex()
		}
	}
	return p
}
