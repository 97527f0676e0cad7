package i18n

import "strings"

// Translator retrieves localized messages for diagnostic codes. data provides
// the values substituted for {name} placeholders (for example "path" or
// "pointer").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	dict := english
	if t.lang == "ja" {
		dict = japanese
	}
	tmpl, ok := dict[code]
	if !ok {
		if tmpl, ok = english[code]; !ok {
			return code
		}
	}
	return Render(tmpl, data)
}

// Render substitutes {name} placeholders. Unknown placeholders render empty.
func Render(tmpl string, data map[string]string) string {
	var b strings.Builder
	for {
		i := strings.IndexByte(tmpl, '{')
		if i < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		j := strings.IndexByte(tmpl[i:], '}')
		if j < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		b.WriteString(tmpl[:i])
		b.WriteString(data[tmpl[i+1:i+j]])
		tmpl = tmpl[i+j+1:]
	}
}

var english = map[string]string{
	"duplicate_key":              `{path} is not valid JSON: key {key} set more than once at {pointer}`,
	"parse_error":                `{path} is not valid JSON: {error}`,
	"letter_case_property":       `{path}: {pointer} field isn't lowerCamelCase ASCII letters`,
	"letter_case_definition":     `{path}: {pointer} block isn't UpperCamelCase ASCII letters`,
	"missing_metadata":           `{path} is missing "{property}" at {pointer}`,
	"missing_type":               `{path} is missing "type" or "$ref" or "oneOf" at {pointer}`,
	"null_in_type":               `{path} includes "null" in "type" at {pointer}`,
	"missing_null":               `{path} is missing "null" in "type" at {pointer}`,
	"open_codelist_enum":         `{path} sets "enum", though "openCodelist" is true, at {pointer}`,
	"closed_codelist_no_enum":    `{path} is missing "enum", though "openCodelist" is false, at {pointer}`,
	"codelist_mismatch":          `{path}: {pointer}/enum doesn't match codelists/{codelist}{added}{removed}`,
	"missing_codelist_file":      `{path} refers to missing file codelists/{codelist} at {pointer}`,
	"enum_without_codelist":      `{path} is missing "codelist" and "openCodelist" at {pointer}`,
	"missing_items":              `{path} is missing "items" at {pointer}`,
	"invalid_items_type":         `{path} includes "{type}" in "items/type" at {pointer}`,
	"deep_properties":            `{path} has "properties" within "properties" at {pointer}`,
	"merge_property_falsy":       `{path} sets "{property}" to false or null at {pointer}`,
	"whole_list_merge_not_array": `{path} sets "wholeListMerge", though the field is not an array of objects, at {pointer}`,
	"merge_properties_both":      `{path} sets both "omitWhenMerged" and "wholeListMerge" at {pointer}`,
	"missing_id":                 `{path} is missing "id" in "items/properties" at {location}`,
	"optional_id":                `{path} is missing "id" in "items/required" at {location}`,
	"unresolved_ref":             `{path} has {reason} at {segments}`,
	"unused_codelists":           `{path} has unused codelists: {codelists}`,
	"missing_codelists":          `{path} is missing codelists: {codelists}`,
	"unknown_codelist_patch":     `{codelist} patches unknown codelist`,
	"invalid_schema":             `{path}: {error} at {pointer} ({keyword})`,
	"empty_file":                 `{path} is empty`,
	"misindented_file":           `{path} is not indented as expected`,
	"merge_overwrite":            `{path} unexpectedly overwrites {pointer}`,
	"empty_patch":                `{path} does not change the schema it patches`,
}

var japanese = map[string]string{
	"duplicate_key":              `{path} は不正な JSON です: {pointer} でキー {key} が重複しています`,
	"parse_error":                `{path} は不正な JSON です: {error}`,
	"letter_case_property":       `{path}: {pointer} のフィールド名が lowerCamelCase の ASCII 英字ではありません`,
	"letter_case_definition":     `{path}: {pointer} の定義名が UpperCamelCase の ASCII 英字ではありません`,
	"missing_metadata":           `{path} の {pointer} に "{property}" がありません`,
	"missing_type":               `{path} の {pointer} に "type"、"$ref"、"oneOf" のいずれもありません`,
	"null_in_type":               `{path} の {pointer} で "type" に "null" が含まれています`,
	"missing_null":               `{path} の {pointer} で "type" に "null" が含まれていません`,
	"open_codelist_enum":         `{path} の {pointer} は "openCodelist" が true なのに "enum" を設定しています`,
	"closed_codelist_no_enum":    `{path} の {pointer} は "openCodelist" が false なのに "enum" がありません`,
	"codelist_mismatch":          `{path}: {pointer}/enum が codelists/{codelist} と一致しません{added}{removed}`,
	"missing_codelist_file":      `{path} の {pointer} が存在しないファイル codelists/{codelist} を参照しています`,
	"enum_without_codelist":      `{path} の {pointer} に "codelist" と "openCodelist" がありません`,
	"missing_items":              `{path} の {pointer} に "items" がありません`,
	"invalid_items_type":         `{path} の {pointer} で "items/type" に "{type}" が含まれています`,
	"deep_properties":            `{path} の {pointer} で "properties" が入れ子になっています`,
	"merge_property_falsy":       `{path} の {pointer} で "{property}" が false または null です`,
	"whole_list_merge_not_array": `{path} の {pointer} はオブジェクトの配列ではないのに "wholeListMerge" を設定しています`,
	"merge_properties_both":      `{path} の {pointer} で "omitWhenMerged" と "wholeListMerge" が両方設定されています`,
	"missing_id":                 `{path} の {location} で "items/properties" に "id" がありません`,
	"optional_id":                `{path} の {location} で "items/required" に "id" がありません`,
	"unresolved_ref":             `{path} の {segments} に {reason} があります`,
	"unused_codelists":           `{path} に未使用のコードリストがあります: {codelists}`,
	"missing_codelists":          `{path} が参照するコードリストがありません: {codelists}`,
	"unknown_codelist_patch":     `{codelist} は存在しないコードリストを変更しています`,
	"invalid_schema":             `{path}: {pointer} で {error} ({keyword})`,
	"empty_file":                 `{path} は空です`,
	"misindented_file":           `{path} のインデントが想定と異なります`,
	"merge_overwrite":            `{path} が {pointer} を予期せず上書きしています`,
	"empty_patch":                `{path} はパッチ対象のスキーマを変更していません`,
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
