package scaffold

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9]+`)

// Metadata holds every value substituted into the project template. It is
// derived once at scaffold time and never recomputed afterwards; renaming
// a mod later means editing the generated files by hand.
type Metadata struct {
	ModName              string
	ModVersion           string
	ModAuthor            string
	ModDescription       string
	SupportedGameVersion string

	ProjectName      string
	ProjectFilename  string
	SolutionFilename string
	ProjectGUID      string
	SolutionGUID     string

	ModClassName  string
	ModSlug       string
	PackagePrefix string
	ModHarmonyID  string
	OutputDLLName string
	ModFolderName string
}

// Derive computes the full metadata set from the user-supplied mod name,
// author, and description. The GUIDs are freshly generated on every call;
// everything else is deterministic.
func Derive(name, author, description string) Metadata {
	project := pascalCase(name)
	slug := Slugify(name)

	return Metadata{
		ModName:              name,
		ModVersion:           "0.0.1",
		ModAuthor:            author,
		ModDescription:       description,
		SupportedGameVersion: "8.1.0+",

		ProjectName:      project,
		ProjectFilename:  project + ".csproj",
		SolutionFilename: project + ".sln",
		ProjectGUID:      strings.ToUpper(uuid.NewString()),
		SolutionGUID:     strings.ToUpper(uuid.NewString()),

		ModClassName:  project + "Mod",
		ModSlug:       slug,
		PackagePrefix: slug,
		ModHarmonyID:  "com.hexofsteel." + slug,
		OutputDLLName: project + ".dll",
		ModFolderName: name,
	}
}

// values maps placeholder tokens to their substitutions.
func (m Metadata) values() map[string]string {
	return map[string]string{
		"mod_name":               m.ModName,
		"mod_version":            m.ModVersion,
		"mod_author":             m.ModAuthor,
		"mod_description":        m.ModDescription,
		"supported_game_version": m.SupportedGameVersion,
		"project_name":           m.ProjectName,
		"project_filename":       m.ProjectFilename,
		"solution_filename":      m.SolutionFilename,
		"project_guid":           m.ProjectGUID,
		"solution_guid":          m.SolutionGUID,
		"mod_class_name":         m.ModClassName,
		"mod_slug":               m.ModSlug,
		"package_prefix":         m.PackagePrefix,
		"mod_harmony_id":         m.ModHarmonyID,
		"output_dll_name":        m.OutputDLLName,
		"mod_folder_name":        m.ModFolderName,
	}
}

// Slugify lowers the name to hyphen-joined alphanumeric runs, folding
// accented letters to their ASCII base first so "Blitz Café" becomes
// "blitz-cafe". A name with no usable characters falls back to "mod".
func Slugify(name string) string {
	tokens := tokenPattern.FindAllString(foldAccents(name), -1)
	if len(tokens) == 0 {
		return "mod"
	}
	for i, token := range tokens {
		tokens[i] = strings.ToLower(token)
	}
	return strings.Join(tokens, "-")
}

// pascalCase joins the name's alphanumeric runs capitalized, falling back
// to "ModProject" when nothing usable remains. The result is a valid C#
// identifier as long as it does not begin with a digit, which the
// templates tolerate the same way the game's own tooling does.
func pascalCase(name string) string {
	tokens := tokenPattern.FindAllString(foldAccents(name), -1)
	if len(tokens) == 0 {
		return "ModProject"
	}
	var b strings.Builder
	for _, token := range tokens {
		b.WriteString(strings.ToUpper(token[:1]))
		b.WriteString(strings.ToLower(token[1:]))
	}
	return b.String()
}

// foldAccents decomposes the string and drops combining marks, leaving
// the base letters the token pattern can pick up.
func foldAccents(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
