package catalog

import "fmt"

// Role is the kind of account interacting with the assistant.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// LoginWelcome is the generic greeting shown right after login, before any
// conversation exists.
func LoginWelcome(role Role) string {
	if role == RoleTeacher {
		return "¡Bienvenido/a! Como docente, puedes usar este sistema para apoyar a tus estudiantes y acceder a análisis de uso. ¿Cómo puedo asistirte?"
	}
	return "¡Hola! Soy tu asistente virtual educativo. Estoy aquí para ayudarte con tus estudios. ¿En qué materia necesitas apoyo hoy?"
}

// ConversationWelcome is the bot message injected as the first message of
// every new conversation, personalized by name, role and subject.
func ConversationWelcome(name string, role Role, subject Subject) string {
	if role == RoleTeacher {
		return fmt.Sprintf("Hola %s. Como docente, puedes usar esta herramienta para explorar cómo los estudiantes interactúan con el contenido de %s. ¿En qué puedo asistirte?",
			name, subject.DisplayName())
	}
	return fmt.Sprintf("¡Hola %s! Bienvenido/a a tu sesión de %s. Estoy aquí para ayudarte con tus dudas y apoyar tu aprendizaje. ¿Qué te gustaría estudiar hoy?",
		name, subject.DisplayName())
}
