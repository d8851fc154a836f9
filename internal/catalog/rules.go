package catalog

import "regexp"

// Rule pairs a question pattern with its canned answer. Rules of a subject are
// tested in declaration order and the first match wins, so the order below is
// load-bearing.
type Rule struct {
	Pattern   *regexp.Regexp
	Response  string
	FollowUp  string
	Resources []string
}

// Rules returns the ordered rule list for a subject. Unknown subjects yield nil.
func Rules(s Subject) []Rule {
	return rulesBySubject[s]
}

var rulesBySubject = map[Subject][]Rule{
	Matematicas: {
		{
			Pattern:   regexp.MustCompile(`(?i)ecuaci[óo]n cuadr[áa]tica|ax2|discriminante`),
			Response:  "Una ecuación cuadrática tiene la forma ax² + bx + c = 0. Para resolverla puedes usar la fórmula: x = (-b ± √(b²-4ac)) / 2a. El discriminante (b²-4ac) te dice cuántas soluciones reales tiene.",
			FollowUp:  "¿Te gustaría que practiquemos con un ejemplo específico?",
			Resources: []string{"https://es.khanacademy.org/math/algebra/quadratics"},
		},
		{
			Pattern:   regexp.MustCompile(`(?i)fracci[óo]n|numerador|denominador|simplificar`),
			Response:  "Las fracciones representan partes de un todo. Para simplificar una fracción, divide numerador y denominador por su máximo común divisor (MCD). Para sumar fracciones, necesitas el mismo denominador.",
			FollowUp:  "¿Necesitas ayuda con alguna operación específica con fracciones?",
			Resources: []string{"https://es.khanacademy.org/math/arithmetic/fractions"},
		},
		{
			Pattern:   regexp.MustCompile(`(?i)funci[óo]n|dominio|rango|gr[áa]fica`),
			Response:  "Una función es una relación donde cada entrada (x) tiene exactamente una salida (y). El dominio son todos los valores posibles de x, y el rango todos los valores posibles de y.",
			FollowUp:  "¿Quieres que veamos cómo graficar una función específica?",
			Resources: []string{"https://es.khanacademy.org/math/algebra/functions"},
		},
	},
	Ciencias: {
		{
			Pattern:   regexp.MustCompile(`(?i)c[ée]lula|mitosis|meiosis|organelos`),
			Response:  "La célula es la unidad básica de la vida. Las células eucariotas tienen núcleo y organelos como mitocondrias, ribosomas y retículo endoplasmático. La mitosis produce células idénticas, la meiosis produce gametos.",
			FollowUp:  "¿Te interesa profundizar en algún organelo específico?",
			Resources: []string{"https://es.khanacademy.org/science/biology/cell-structure"},
		},
		{
			Pattern:   regexp.MustCompile(`(?i)ecosistema|cadena alimentaria|productor|consumidor`),
			Response:  "Un ecosistema incluye todos los seres vivos y factores abióticos de un área. La energía fluye desde productores (plantas) hacia consumidores primarios (herbívoros) y secundarios (carnívoros).",
			FollowUp:  "¿Quieres explorar un ecosistema específico como el bosque o el océano?",
			Resources: []string{"https://es.khanacademy.org/science/biology/ecology"},
		},
	},
	Historia: {
		{
			Pattern:   regexp.MustCompile(`(?i)independencia|revoluci[óo]n|colonia|libertad`),
			Response:  "Los procesos de independencia latinoamericanos (1810-1825) fueron movimientos donde las colonias se liberaron del dominio español. Líderes como Bolívar, San Martín e Hidalgo fueron fundamentales.",
			FollowUp:  "¿Te gustaría conocer más sobre algún prócer en particular?",
			Resources: []string{"http://www.educarchile.cl/historia-independencia"},
		},
		{
			Pattern:   regexp.MustCompile(`(?i)guerra mundial|hitler|nazismo|holocausto`),
			Response:  "Las Guerras Mundiales (1914-1918 y 1939-1945) transformaron el mundo. La Primera surgió por tensiones europeas, la Segunda por el fascismo. Ambas tuvieron consecuencias políticas, sociales y económicas duraderas.",
			FollowUp:  "¿Quieres analizar las causas o consecuencias de alguna de estas guerras?",
			Resources: []string{"https://encyclopedia.britannica.com/event/World-War-I"},
		},
	},
	Literatura: {
		{
			Pattern:   regexp.MustCompile(`(?i)g[ée]nero literario|narrativa|l[íi]rica|drama`),
			Response:  "Los géneros literarios principales son: Épico (narrativa: novela, cuento), Lírico (poesía, expresión de sentimientos) y Dramático (teatro, diálogos). Cada uno tiene características y estructuras específicas.",
			FollowUp:  "¿Te interesa analizar alguna obra en particular?",
			Resources: []string{"https://www.cervantes.es/lengua_y_ensenanza/generos_literarios.htm"},
		},
		{
			Pattern:   regexp.MustCompile(`(?i)met[áa]fora|s[íi]mil|personificaci[óo]n|figura ret[óo]rica`),
			Response:  "Las figuras retóricas embellecen el lenguaje: la metáfora compara sin usar 'como' (sus ojos son estrellas), el símil usa 'como' (rápido como el viento), la personificación da cualidades humanas a objetos.",
			FollowUp:  "¿Quieres que identifiquemos figuras retóricas en algún poema?",
			Resources: []string{"https://www.rae.es/dpd/figuras-retorica"},
		},
	},
	Ingles: {
		{
			Pattern:   regexp.MustCompile(`(?i)present perfect|past simple|future|verb tense`),
			Response:  "Los tiempos verbales en inglés expresan cuándo ocurre una acción. Present Simple (I work), Past Simple (I worked), Present Perfect (I have worked), Future (I will work). Cada uno tiene usos específicos.",
			FollowUp:  "Would you like to practice with some examples?",
			Resources: []string{"https://www.englishgrammar.org/verb-tenses/"},
		},
		{
			Pattern:   regexp.MustCompile(`(?i)vocabulary|words|meaning|definition`),
			Response:  "Building vocabulary is essential for English fluency. Try learning 5-10 new words daily, use them in sentences, and practice with context. Reading and listening help expand your vocabulary naturally.",
			FollowUp:  "¿Hay algún tema específico de vocabulario que te interese?",
			Resources: []string{"https://www.merriam-webster.com/"},
		},
	},
	Fisica: {
		{
			Pattern:   regexp.MustCompile(`(?i)movimiento|velocidad|aceleraci[óo]n|cin[ée]tica`),
			Response:  "El movimiento se describe con velocidad (distancia/tiempo) y aceleración (cambio de velocidad/tiempo). Las leyes de Newton explican cómo las fuerzas afectan el movimiento de los objetos.",
			FollowUp:  "¿Quieres resolver algún problema de cinemática?",
			Resources: []string{"https://es.khanacademy.org/science/physics/one-dimensional-motion"},
		},
		{
			Pattern:   regexp.MustCompile(`(?i)energ[íi]a|cin[ée]tica|potencial|trabajo|potencia`),
			Response:  "La energía es la capacidad de realizar trabajo. Energía cinética = ½mv², energía potencial = mgh. La energía se conserva: no se crea ni se destruye, solo se transforma.",
			FollowUp:  "¿Te gustaría ver ejemplos de transformaciones de energía?",
			Resources: []string{"https://es.khanacademy.org/science/physics/work-and-energy"},
		},
	},
	Quimica: {
		{
			Pattern:   regexp.MustCompile(`(?i)tabla peri[óo]dica|elemento|[áa]tomo|valencia`),
			Response:  "La tabla periódica organiza elementos por número atómico. Los grupos (columnas) tienen propiedades similares, los períodos (filas) indican niveles de energía. La valencia determina cómo se combinan los elementos.",
			FollowUp:  "¿Quieres que veamos las propiedades de algún elemento específico?",
			Resources: []string{"https://es.khanacademy.org/science/chemistry/periodic-table"},
		},
		{
			Pattern:   regexp.MustCompile(`(?i)enlace|i[óo]nico|covalente|met[áa]lico|mol[ée]cula`),
			Response:  "Los enlaces químicos unen átomos: iónicos (transferencia de electrones), covalentes (compartir electrones), metálicos (mar de electrones). Determinan las propiedades de los compuestos.",
			FollowUp:  "¿Te interesa practicar con estructuras de Lewis?",
			Resources: []string{"https://es.khanacademy.org/science/chemistry/chemical-bonds"},
		},
	},
}

// GenericResponses is the fallback pool used when no rule matches anywhere.
var GenericResponses = []string{
	"Es una excelente pregunta. ¿Podrías ser más específico sobre qué aspecto te interesa más?",
	"Me gustaría ayudarte mejor. ¿Podrías reformular tu pregunta o dar más contexto?",
	"Esa es un área interesante de estudio. ¿Hay algún concepto particular que te genere dudas?",
	"Para darte una respuesta más precisa, ¿podrías especificar en qué materia se enmarca tu pregunta?",
}
