package font

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// glyphNames covers the Adobe Glyph List names that commonly appear in
// /Differences arrays. Single letters map to themselves and accented
// letters are composed from accentMarks.
var glyphNames = map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#',
	"dollar": '$', "percent": '%', "ampersand": '&', "quotesingle": '\'',
	"quoteright": '’', "quoteleft": '‘', "parenleft": '(', "parenright": ')',
	"asterisk": '*', "plus": '+', "comma": ',', "hyphen": '-', "period": '.',
	"slash": '/', "colon": ':', "semicolon": ';', "less": '<', "equal": '=',
	"greater": '>', "question": '?', "at": '@', "bracketleft": '[',
	"backslash": '\\', "bracketright": ']', "asciicircum": '^',
	"underscore": '_', "grave": '`', "braceleft": '{', "bar": '|',
	"braceright": '}', "asciitilde": '~',
	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4',
	"five": '5', "six": '6', "seven": '7', "eight": '8', "nine": '9',
	"bullet": '•', "endash": '–', "emdash": '—', "quotedblleft": '“',
	"quotedblright": '”', "quotesinglbase": '‚', "quotedblbase": '„',
	"ellipsis": '…', "fi": 'ﬁ', "fl": 'ﬂ', "ff": 'ﬀ', "ffi": 'ﬃ', "ffl": 'ﬄ',
	"dagger": '†', "daggerdbl": '‡', "trademark": '™', "copyright": '©',
	"registered": '®', "degree": '°', "section": '§', "paragraph": '¶',
	"periodcentered": '·', "minus": '−', "multiply": '×', "divide": '÷',
	"plusminus": '±', "nbspace": '\u00a0', "Euro": '€',
	"sterling": '£', "yen": '¥', "cent": '¢', "currency": '¤',
	"ordfeminine": 'ª', "ordmasculine": 'º', "guillemotleft": '«',
	"guillemotright": '»', "guilsinglleft": '‹', "guilsinglright": '›',
	"exclamdown": '¡', "questiondown": '¿', "germandbls": 'ß', "ae": 'æ',
	"AE": 'Æ', "oe": 'œ', "OE": 'Œ', "oslash": 'ø', "Oslash": 'Ø',
	"dotlessi": 'ı', "lslash": 'ł', "Lslash": 'Ł', "florin": 'ƒ',
	"perthousand": '‰', "fraction": '⁄', "onehalf": '½', "onequarter": '¼',
	"threequarters": '¾', "mu": 'µ', "logicalnot": '¬', "brokenbar": '¦',
	"dieresis": '¨', "macron": '¯', "acute": '´', "cedilla": '¸',
	"circumflex": 'ˆ', "tilde": '˜', "caron": 'ˇ', "ring": '˚', "eth": 'ð',
	"Eth": 'Ð', "thorn": 'þ', "Thorn": 'Þ',
}

// accentMarks maps AGL accent suffixes to combining marks.
var accentMarks = map[string]rune{
	"acute":      '\u0301',
	"grave":      '\u0300',
	"circumflex": '\u0302',
	"dieresis":   '\u0308',
	"tilde":      '\u0303',
	"ring":       '\u030a',
	"cedilla":    '\u0327',
	"caron":      '\u030c',
}

// GlyphNameToRune maps a PostScript glyph name to Unicode. It understands
// the uniXXXX and uXXXX[XX] forms, AGL names, and letter+accent names such
// as eacute. Unknown names return 0.
func GlyphNameToRune(name string) rune {
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	if name == "" {
		return 0
	}
	if r, ok := glyphNames[name]; ok {
		return r
	}
	if len(name) == 1 {
		c := name[0]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return rune(c)
		}
		return 0
	}
	if strings.HasPrefix(name, "uni") && len(name) >= 7 {
		if v, err := strconv.ParseUint(name[3:7], 16, 32); err == nil {
			return rune(v)
		}
	}
	if name[0] == 'u' && len(name) >= 5 && len(name) <= 7 {
		if v, err := strconv.ParseUint(name[1:], 16, 32); err == nil && utf8.ValidRune(rune(v)) {
			return rune(v)
		}
	}
	for suffix, mark := range accentMarks {
		base := strings.TrimSuffix(name, suffix)
		if len(base) == 1 && base != name {
			composed := norm.NFC.String(base + string(mark))
			r, size := utf8.DecodeRuneInString(composed)
			if size == len(composed) {
				return r
			}
		}
	}
	return 0
}
