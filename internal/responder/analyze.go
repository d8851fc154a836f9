package responder

import (
	"fmt"
	"strings"

	"github.com/cmontoya/eduassist/internal/catalog"
	"github.com/cmontoya/eduassist/internal/model"
)

type Complexity string

const (
	ComplexityBasic        Complexity = "basic"
	ComplexityIntermediate Complexity = "intermediate"
	ComplexityAdvanced     Complexity = "advanced"
)

type Emotion string

const (
	EmotionNeutral    Emotion = "neutral"
	EmotionFrustrated Emotion = "frustrated"
	EmotionCurious    Emotion = "curious"
	EmotionConfident  Emotion = "confident"
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// QuestionContext is a coarse keyword-based reading of a question, used by the
// stats surface to characterize how a student is asking.
type QuestionContext struct {
	Complexity Complexity `json:"complexity"`
	Emotion    Emotion    `json:"emotion"`
	Urgency    Urgency    `json:"urgency"`
}

var (
	advancedKeywords     = []string{"demostrar", "derivar", "analizar", "sintetizar", "evaluar"}
	intermediateKeywords = []string{"explicar", "comparar", "relacionar", "aplicar"}
)

// AnalyzeContext classifies a raw question by literal keyword presence.
func AnalyzeContext(message string) QuestionContext {
	lower := strings.ToLower(message)

	qc := QuestionContext{
		Complexity: ComplexityBasic,
		Emotion:    EmotionNeutral,
		Urgency:    UrgencyLow,
	}

	if containsAny(lower, advancedKeywords) {
		qc.Complexity = ComplexityAdvanced
	} else if containsAny(lower, intermediateKeywords) {
		qc.Complexity = ComplexityIntermediate
	}

	switch {
	case containsAny(message, []string{"no entiendo", "confundido", "difícil"}):
		qc.Emotion = EmotionFrustrated
	case containsAny(message, []string{"interesante", "quiero saber", "me pregunto"}):
		qc.Emotion = EmotionCurious
	case containsAny(message, []string{"creo que", "pienso que"}):
		qc.Emotion = EmotionConfident
	}

	switch {
	case containsAny(message, []string{"examen", "tarea", "mañana"}):
		qc.Urgency = UrgencyHigh
	case containsAny(message, []string{"pronto", "necesito"}):
		qc.Urgency = UrgencyMedium
	}

	return qc
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// StudySuggestions derives study tips from the user-authored part of the
// recent history. Subject-specific tips fire on topic keywords; otherwise a
// generic set is returned.
func StudySuggestions(subject catalog.Subject, recent []model.Message) []string {
	var topics strings.Builder
	for _, msg := range recent {
		if msg.IsBot {
			continue
		}
		topics.WriteString(strings.ToLower(msg.Content))
		topics.WriteString(" ")
	}
	seen := topics.String()

	var suggestions []string
	switch subject {
	case catalog.Matematicas:
		if strings.Contains(seen, "ecuación") {
			suggestions = append(suggestions,
				"Practica más ejercicios de ecuaciones paso a paso",
				"Revisa los fundamentos de álgebra")
		}
		if strings.Contains(seen, "función") {
			suggestions = append(suggestions,
				"Dibuja gráficas de funciones para visualizar mejor",
				"Practica identificando dominio y rango")
		}
	case catalog.Ciencias:
		if strings.Contains(seen, "célula") {
			suggestions = append(suggestions,
				"Estudia diagramas de células con sus organelos",
				"Compara células procariotas y eucariotas")
		}
	default:
		suggestions = append(suggestions,
			fmt.Sprintf("Repasa los conceptos fundamentales de %s", subject),
			"Practica con ejercicios de diferentes niveles")
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions,
			"Crea un mapa conceptual de lo que has estudiado",
			"Practica explicando los conceptos con tus palabras",
			"Busca ejemplos prácticos del tema en la vida real")
	}

	return suggestions
}
