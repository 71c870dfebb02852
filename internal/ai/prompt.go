package ai

import (
	"fmt"
	"strings"
)

const defaultSystemPrompt = `Você é um Atendente Virtual de Elite de uma empresa local.
TOM: Persuasivo, Profissional e Amigável.
DIRETRIZES: Sempre cumprimente pelo nome se souber. Nunca mencione que você é uma IA.
OBJETIVO: Vender, tirar dúvidas e ser extremamente prestativo.`

// markerInstruction is the wire-format contract with the webhook pipeline: the
// model appends exactly one ||AGENDAMENTO: {...}|| tag when a booking is fully
// confirmed, and the pipeline parses it back out of the reply.
const markerInstruction = `REGRA DE AGENDAMENTO:
Sempre que você FINALIZAR e CONFIRMAR um agendamento (tiver Nome do Cliente, Serviço e Horário Definitivo), adicione ao FINAL da sua resposta este código oculto para eu registrar no sistema:
||AGENDAMENTO: {"client": "Nome", "service": "Serviço", "date": "Data e Hora"}||
(Use exatamente formato JSON válido dentro de ||...||. O nome do cliente deve ser extraído da conversa ou do perfil do usuário.)`

// BuildSystemPrompt composes the system prompt in fixed order: identity
// header, base persona, appointment-marker rule, behavioral directives, price
// table, agenda and knowledge base.
func BuildSystemPrompt(cfg *Config) string {
	basePrompt := defaultSystemPrompt
	if cfg != nil && cfg.SystemPrompt != "" {
		basePrompt = cfg.SystemPrompt
	}

	var b strings.Builder

	if cfg != nil {
		identity := ""
		if cfg.CompanyName != "" {
			identity += fmt.Sprintf("VOCÊ É E REPRESENTA: %s\n", cfg.CompanyName)
		}
		if cfg.Profession != "" {
			identity += fmt.Sprintf("SUA FUNÇÃO: %s\n", strings.ToUpper(cfg.Profession))
		}
		if identity != "" {
			b.WriteString(identity)
			b.WriteString("\nIMPORTANTE: Aja como tal. Nunca recomende procurar \"um profissional\", pois VOCÊ É O PROFISSIONAL.\n\n")
		}
	}

	b.WriteString(basePrompt)
	b.WriteString("\n\n")
	b.WriteString(markerInstruction)

	if cfg != nil {
		if cfg.BehavioralDirectives != "" {
			b.WriteString("\n\nDIRETRIZES DE COMPORTAMENTO:\n")
			b.WriteString(cfg.BehavioralDirectives)
		}
		if cfg.PriceTable != "" {
			b.WriteString("\n\nTABELA DE PREÇOS:\n")
			b.WriteString(cfg.PriceTable)
		}
		if cfg.Agenda != "" {
			b.WriteString("\n\nAGENDA / HORÁRIOS:\n")
			b.WriteString(cfg.Agenda)
		}
		if len(cfg.KnowledgeBase) > 0 {
			lines := make([]string, 0, len(cfg.KnowledgeBase))
			for _, article := range cfg.KnowledgeBase {
				lines = append(lines, fmt.Sprintf("[%s]: %s", article.Title, article.Content))
			}
			b.WriteString("\n\nBASE DE CONHECIMENTO:\n")
			b.WriteString(strings.Join(lines, "\n"))
		}
	}

	return b.String()
}
