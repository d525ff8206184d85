package llm

import (
	"fmt"
	"strings"

	"github.com/ozanyurtsever/labsense/constants"
	"github.com/ozanyurtsever/labsense/internal/entity"
)

// ClassificationInstructions is the full instruction set for the primary
// classification attempt.
const ClassificationInstructions = `You receive text extracted from a PDF a user uploaded. Decide whether it is a laboratory test report: a document whose primary content is named medical test measurements with numeric values and optional reference ranges. Set isLab accordingly with a confidence between 0 and 1 and a short reason. When it is a lab report, extract every measurement you can into items: test (the test name), label (an alternate or localized name, or null), value (the numeric result), unit (or null), refLow and refHigh (the reference range bounds, or null). Do not invent measurements that are not present in the text.`

// SecondaryInstructions is the reduced prompt for the degraded second
// attempt; it relies on the schema alone to describe the output.
const SecondaryInstructions = `Output ONLY the JSON as previously described.`

// AnalysisInstructions is the narrative prompt. Output language is
// Turkish, matching the product's audience; four fixed sections in
// order, with explicit prohibitions on drug names, dosages and
// diagnoses.
const AnalysisInstructions = `Sen bir klinik asistan değilsin; **tıbbi tanı koymazsın**. Kullanıcıya bilgilendirici ve sade Türkçe bir özet yaz.
ÇIKTIYI SADECE MARKDOWN OLARAK VER. Aşağıdaki 4 bölümü bu sırada üret:
1) **Tahlil Özeti**: Bulguların genel çerçevesi (kısa).
2) **Öne Çıkan Bulgular**: Referans dışına çıkan veya klinik açıdan anlamlı maddeleri madde işaretli listele (varsa).
3) **Tavsiye**: Yaşam tarzı/izlem önerileri (genel, tıbbi tedavi önermeden).
4) **Uyarı**: "Bu bir tıbbi değerlendirme değildir, sonuçları doktorunuzla paylaşın." gibi net bir uyarı.

Kısıtlar:
- **İlaç ismi, doz, tanı** verme.
- Belirsiz durumda "ek klinik bağlam gerekir" de.
- Ton: sakin, yargısız, sade.`

// BuildAnalysisInput wraps the bulleted items for the narrative call.
func BuildAnalysisInput(bullet string) string {
	return "Aşağıda kullanıcının laboratuvar maddeleri var (madde madde). Buna göre yukarıdaki 4 başlıkta kısa bir değerlendirme yaz.\nVeriler:\n" + bullet
}

// ItemsToBulletedText renders records into the compact representation
// the narrative call consumes, one "name | value [unit] | ref range"
// line per record, capped at MaxItemsForAnalysis.
func ItemsToBulletedText(items []entity.MeasurementRecord) string {
	if len(items) > constants.MaxItemsForAnalysis {
		items = items[:constants.MaxItemsForAnalysis]
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		parts := []string{it.Test}
		val := "değer: " + formatNumber(it.Value)
		if it.Unit != nil {
			val += " " + *it.Unit
		}
		parts = append(parts, val)
		if it.RefLow != nil && it.RefHigh != nil {
			ref := fmt.Sprintf("ref: %s–%s", formatNumber(*it.RefLow), formatNumber(*it.RefHigh))
			if it.Unit != nil {
				ref += " " + *it.Unit
			}
			parts = append(parts, ref)
		}
		lines = append(lines, "- "+strings.Join(parts, " | "))
	}
	return strings.Join(lines, "\n")
}

func formatNumber(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}
