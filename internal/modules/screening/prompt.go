package screening

import (
	"fmt"
	"strings"
)

const promptIntro = `Anda adalah asisten kesehatan yang menyusun ringkasan skrining pranikah dan prenatal dalam bahasa Indonesia yang jelas, ramah, dan akurat.
Gunakan pasangan tanya-jawab di bawah ini. Jangan menebak bila bukti tidak cukup.`

const promptTask = `TUGAS:
1) Tentukan tingkat risiko keseluruhan: "Rendah" | "Sedang" | "Tinggi".
2) Berikan skor komposit "percentage" berupa integer 0..100. Skor lebih tinggi berarti risiko lebih rendah.
   Pertimbangkan pola jawaban secara keseluruhan (riwayat penyakit, gaya hidup, kesehatan mental, reproduksi).
3) Tulis "summary" ringkas, maksimal 120 kata.
4) Berikan 3-6 butir "tips" praktis dan spesifik.
5) Opsional: sertakan 3-5 "sections" berisi {title, note} untuk menyoroti area tertentu.

FORMAT: kembalikan JSON murni dengan skema persis:
{
  "percentage": number,
  "riskLevel": "Rendah" | "Sedang" | "Tinggi",
  "summary": string,
  "sections": [{"title": string, "note": string}],
  "tips": [string]
}

Jangan sertakan teks apa pun di luar JSON.`

// BuildPrompt renders the evaluation instruction. Pairs are numbered in the
// order given; nothing is validated here.
func BuildPrompt(patientName *string, pairs []QAPair) string {
	var b strings.Builder
	b.WriteString(promptIntro)
	b.WriteString("\n\n")
	if patientName != nil && strings.TrimSpace(*patientName) != "" {
		fmt.Fprintf(&b, "Nama pasien: %s\n\n", strings.TrimSpace(*patientName))
	}
	b.WriteString("DATA:\n")
	for i, p := range pairs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n", i+1, p.Question, i+1, p.Answer)
	}
	b.WriteString("\n")
	b.WriteString(promptTask)
	b.WriteString("\n")
	return b.String()
}
