package fonts

import (
	"fmt"

	cfg "github.com/automoto/worldclient/config"
	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

type FontName string

const (
	Title  FontName = "title"
	Normal FontName = "normal"
	Mono   FontName = "mono"
)

func (f FontName) Get() font.Face {
	return getFont(f)
}

// Face returns the font as a text/v2 face, which is what ebitenui widgets
// take.
func (f FontName) Face() text.Face {
	return text.NewGoXFace(getFont(f))
}

var (
	fonts = map[FontName]font.Face{}
)

// LoadDefaults loads the debug panel fonts at the sizes in config.UI.
func LoadDefaults() error {
	if err := LoadFontWithSize(Title, goregular.TTF, cfg.UI.TitleFontSize); err != nil {
		return err
	}
	if err := LoadFontWithSize(Normal, goregular.TTF, cfg.UI.NormalFontSize); err != nil {
		return err
	}
	return LoadFontWithSize(Mono, gomono.TTF, cfg.UI.NormalFontSize)
}

func LoadFont(name FontName, ttf []byte) error {
	return LoadFontWithSize(name, ttf, 10)
}

func LoadFontWithSize(name FontName, ttf []byte, size float64) error {
	fontData, err := truetype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", name, err)
	}
	fonts[name] = truetype.NewFace(fontData, &truetype.Options{Size: size})
	return nil
}

func getFont(name FontName) font.Face {
	f, ok := fonts[name]
	if !ok {
		panic(fmt.Sprintf("Font %s not found", name))
	}
	return f
}
