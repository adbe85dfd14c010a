// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package thinking

import (
	"bytes"
	"fmt"
	"text/template"
)

// analyzePromptTmpl asks the oracle to classify the question.
var analyzePromptTmpl = template.Must(template.New("analyze").Parse(`أنت محلل أسئلة خبير. قم بتحليل هذا السؤال بعمق:

السؤال: "{{.Query}}"

قم بتحديد:
1. نوع السؤال (معلوماتي، تحليلي، إبداعي، تقني، إلخ)
2. المجالات المعرفية المطلوبة
3. مستوى التعقيد (بسيط، متوسط، معقد)
4. المعلومات الأساسية المطلوبة للإجابة
5. هل يحتاج معلومات حديثة أو بحث ويب؟

كن دقيقاً ومختصراً.`))

// reasonPromptTmpl embeds the analysis and gathered information.
var reasonPromptTmpl = template.Must(template.New("reason").Parse(`أنت مفكر منطقي خبير. بناءً على:

السؤال: "{{.Query}}"

التحليل: {{.Analysis}}

المعلومات المتاحة: {{.Information}}

قم بالتفكير المنطقي خطوة بخطوة:
1. ما هي الحقائق الأساسية؟
2. ما هي العلاقات بين المعلومات؟
3. ما هي الاستنتاجات المنطقية؟
4. هل هناك تناقضات أو نقاط غامضة؟
5. ما هي أفضل طريقة لتنظيم الإجابة؟

فكر بصوت عالٍ واشرح منطقك.`))

// verifyPromptTmpl asks for a critique of the reasoning and a confidence estimate.
var verifyPromptTmpl = template.Must(template.New("verify").Parse(`أنت مراجع خبير. راجع هذا التفكير:

السؤال الأصلي: "{{.Query}}"

التفكير: {{.Reasoning}}

قم بـ:
1. التحقق من صحة المنطق
2. البحث عن أخطاء أو تناقضات
3. تقييم مستوى الثقة (0-100%)
4. اقتراح تحسينات إن وجدت
5. تأكيد الاستنتاجات

كن ناقداً وموضوعياً.`))

// formulatePromptTmpl produces the final answer from the full transcript.
var formulatePromptTmpl = template.Must(template.New("formulate").Parse(`أنت مساعد ذكاء اصطناعي عربي متقدم.

بناءً على التفكير العميق التالي:

{{.Transcript}}
{{if .SearchResults}}
نتائج البحث على الويب:
{{.SearchResults}}
{{end}}
قدم إجابة شاملة ومفصلة على السؤال: "{{.Query}}"

الإجابة يجب أن تكون:
1. دقيقة ومبنية على الحقائق
2. منظمة وواضحة
3. شاملة لجميع جوانب السؤال
4. مدعومة بالأدلة والمصادر إن وجدت
5. بأسلوب ودود واحترافي

في النهاية، قيّم ثقتك في الإجابة (0-100%).`))

// degradedThinkPromptTmpl is the first call of the two-call fallback.
var degradedThinkPromptTmpl = template.Must(template.New("degraded-think").Parse(`أنت في وضع التفكير العميق.

قم بتحليل هذا السؤال خطوة بخطوة:
"{{.Query}}"

فكر بصوت عالٍ:
1. ما هو السؤال الحقيقي؟
2. ما المعلومات المطلوبة؟
3. كيف أبني إجابة شاملة؟

اكتب تفكيرك بالتفصيل.`))

// degradedAnswerPromptTmpl is the second call of the two-call fallback.
var degradedAnswerPromptTmpl = template.Must(template.New("degraded-answer").Parse(`بناءً على هذا التفكير:
{{.Thinking}}

الآن أجب على السؤال بشكل شامل ومفصل:
"{{.Query}}"`))

// promptData is the union of fields the templates reference.
type promptData struct {
	Query         string
	Analysis      string
	Information   string
	Reasoning     string
	Transcript    string
	SearchResults string
	Thinking      string
}

func renderPrompt(tmpl *template.Template, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
