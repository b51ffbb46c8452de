package chat

import (
	"fmt"
	"strings"
	"time"
)

// Emotion tags the client may attach to a message.
const (
	EmotionSad      = "sad"
	EmotionHappy    = "happy"
	EmotionConfused = "confused"
	EmotionAngry    = "angry"
	EmotionNeutral  = "neutral"
)

const defaultInterests = "çeşitli konular"

var weekdays = [...]string{"Pazar", "Pazartesi", "Salı", "Çarşamba", "Perşembe", "Cuma", "Cumartesi"}

// Persona carries the per-request personalization for the system prompt.
type Persona struct {
	Name      string
	Interests []string
	Emotion   string
	Now       time.Time
}

// emotionDirective returns the behavioral instruction for an emotion, or ""
// for neutral and unrecognized values.
func emotionDirective(name, emotion string) string {
	switch emotion {
	case EmotionSad:
		return fmt.Sprintf("%s üzgün görünüyor. Destekleyici, empatik ve teselli edici ol.", name)
	case EmotionHappy:
		return fmt.Sprintf("%s mutlu görünüyor. Sevincini paylaş ve bu pozitif enerjiyi destekle.", name)
	case EmotionConfused:
		return fmt.Sprintf("%s kafası karışık görünüyor. Açık, net ve yol gösterici ol.", name)
	case EmotionAngry:
		return fmt.Sprintf("%s sinirli görünüyor. Sakin, anlayışlı ve sabırlı ol.", name)
	}
	return ""
}

func interestsText(interests []string) string {
	var cleaned []string
	for _, i := range interests {
		if s := strings.TrimSpace(i); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return defaultInterests
	}
	return strings.Join(cleaned, ", ")
}

// SystemPrompt renders the system message for p.
func SystemPrompt(p Persona) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Sen Dost adında, %s'ın en iyi arkadaşısın.\n", p.Name)
	b.WriteString("Samimi, destekleyici ve eğlenceli konuşursun.\n")
	fmt.Fprintf(&b, "%s'ın ilgi alanları: %s.\n", p.Name, interestsText(p.Interests))
	b.WriteString("Geçmiş konuşmaları hatırla ve kullan. İsmiyle hitap et.\n")
	if d := emotionDirective(p.Name, p.Emotion); d != "" {
		b.WriteString(d)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Bugün %s %s, saat %s.\n",
		p.Now.Format("02.01.2006"), weekdays[p.Now.Weekday()], p.Now.Format("15:04"))
	b.WriteString("Kısa ve samimi yanıtlar ver. Uzun paragraflar yazma.\n")
	b.WriteString("\nAraç kullanımı:\n")
	fmt.Fprintf(&b, "- %s bir plan, randevu, hatırlatma ya da etkinlik oluşturmak isterse create_event aracını kullan. "+
		"Tarihi YYYY-MM-DD, saati HH:MM biçiminde ver; \"yarın\", \"haftaya\" gibi ifadeleri bugünün tarihine göre hesapla.\n", p.Name)
	b.WriteString("- Güncel bilgi gereken sorularda (haberler, hava durumu, maç sonuçları, döviz kurları, fiyatlar) web_search aracını kullan.\n")
	b.WriteString("- Diğer her durumda araç kullanmadan doğrudan cevap ver.")

	return b.String()
}
