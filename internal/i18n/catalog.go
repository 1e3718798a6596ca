package i18n

import "time"

// Supported language codes. English is the fallback for any unknown code
// or missing key.
const (
	LangEnglish    = "en"
	LangArabic     = "ar"
	LangPortuguese = "pt"
)

// Languages lists every supported language in display order.
var Languages = []string{LangEnglish, LangArabic, LangPortuguese}

func Supported(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}

var catalog = map[string]map[string]string{
	LangEnglish: {
		"match_created":   "Match Created",
		"match_reminder":  "Match Reminder",
		"match_cancelled": "Match Cancelled",
		"minutes_before":  "minutes before match",
		"match_time":      "Match Time",
		"participants":    "Participants",
		"description":     "Description",
		"creator":         "Creator",
		"server":          "Server",
		"reason":          "Reason",
		"no_permission":   "You do not have permission to use this command",
		"error":           "Error",
		"success":         "Success",
		"match_in":        "Match in",
		"cancelled_by":    "Cancelled by",
		"join_match":      "You have been invited to a match!",
		"match_info":      "Match Information",
	},
	LangArabic: {
		"match_created":   "تم إنشاء المباراة",
		"match_reminder":  "تذكير المباراة",
		"match_cancelled": "تم إلغاء المباراة",
		"minutes_before":  "دقائق قبل المباراة",
		"match_time":      "وقت المباراة",
		"participants":    "المشاركون",
		"description":     "الوصف",
		"creator":         "المنشئ",
		"server":          "السيرفر",
		"reason":          "السبب",
		"no_permission":   "ليس لديك صلاحية لاستخدام هذا الأمر",
		"error":           "خطأ",
		"success":         "نجح",
		"match_in":        "المباراة خلال",
		"cancelled_by":    "ألغيت بواسطة",
		"join_match":      "تم دعوتك للمشاركة في مباراة!",
		"match_info":      "معلومات المباراة",
	},
	LangPortuguese: {
		"match_created":   "Partida Criada",
		"match_reminder":  "Lembrete da Partida",
		"match_cancelled": "Partida Cancelada",
		"minutes_before":  "minutos antes da partida",
		"match_time":      "Horário da Partida",
		"participants":    "Participantes",
		"description":     "Descrição",
		"creator":         "Criador",
		"server":          "Servidor",
		"reason":          "Motivo",
		"no_permission":   "Você não tem permissão para usar este comando",
		"error":           "Erro",
		"success":         "Sucesso",
		"match_in":        "Partida em",
		"cancelled_by":    "Cancelado por",
		"join_match":      "Você foi convidado para uma partida!",
		"match_info":      "Informações da Partida",
	},
}

// T returns the translated string for key, falling back to English and
// finally to the key itself.
func T(lang, key string) string {
	if m, ok := catalog[lang]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := catalog[LangEnglish][key]; ok {
		return v
	}
	return key
}

// Fixed zones instead of tzdata lookups: Riyadh has no DST and Brazil
// abolished DST in 2019, so the offsets are stable.
var (
	zoneMecca  = time.FixedZone("AST", 3*60*60)
	zoneBrazil = time.FixedZone("BRT", -3*60*60)
)

// FormatTime renders a UTC instant in the reader's conventional timezone
// with a suffix naming it.
func FormatTime(t time.Time, lang string) string {
	switch lang {
	case LangArabic:
		return t.In(zoneMecca).Format("2006-01-02 15:04") + " (توقيت مكة)"
	case LangPortuguese:
		return t.In(zoneBrazil).Format("2006-01-02 15:04") + " (Horário de Brasília)"
	default:
		return t.UTC().Format("2006-01-02 15:04") + " GMT"
	}
}

func LanguageFlag(lang string) string {
	switch lang {
	case LangArabic:
		return "🇸🇦"
	case LangPortuguese:
		return "🇧🇷"
	default:
		return "🇺🇸"
	}
}

func LanguageName(lang string) string {
	switch lang {
	case LangArabic:
		return "العربية"
	case LangPortuguese:
		return "Português"
	default:
		return "English"
	}
}
