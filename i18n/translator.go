package i18n

// Translator retrieves localized messages for issue codes. data provides
// optional metadata to embed in the message (for example, "pointer").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "missing_identity":
			return "リソースの type または id がありません"
		case "missing_data":
			return "data キーがありません"
		case "missing_errors":
			return "errors キーがありません"
		case "shape_mismatch":
			return "形状が一致しません"
		case "malformed_json":
			return "JSON の構文が不正です"
		case "invalid_attribute":
			return "属性値が不正です"
		}
	default: // "en"
		switch code {
		case "missing_identity":
			return "resource type or id missing"
		case "missing_data":
			return "data key missing"
		case "missing_errors":
			return "errors key missing"
		case "shape_mismatch":
			return "shape mismatch"
		case "malformed_json":
			return "malformed JSON"
		case "invalid_attribute":
			return "invalid attribute value"
		}
	}
	return code
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
