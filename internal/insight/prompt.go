package insight

import (
	"fmt"
	"strconv"
	"strings"

	"epaypro/internal/core"
)

// Fallback is shown whenever the generator fails. The UI never sees an
// error, only this text.
const Fallback = "عذراً، تعذر تحليل البيانات حالياً. يرجى التحقق من اتصالك بالإنترنت."

// BuildPrompt renders the accounting-expert prompt from a ledger summary.
// The report is requested in Arabic: three profitability recommendations
// plus a low-balance warning.
func BuildPrompt(s core.Summary) string {
	return fmt.Sprintf(`بصفتك خبير محاسبي مالي لموزع دفع إلكتروني في مصر، حلل البيانات التالية وقدم تقريراً مختصراً باللغة العربية:
  عدد العمليات: %d
  إجمالي حجم التداول: %s جنيه
  إجمالي الأرباح (العمولات): %s جنيه
  شركات رصيدها منخفض: %s
  الشركات الأكثر نشاطاً: %s

  المطلوب: تقديم 3 نصائح لتحسين الربحية وتنبيه بخصوص الأرصدة المنخفضة بشكل احترافي ومختصر جداً.`,
		s.TotalTransactions,
		formatAmount(s.TotalVolume),
		formatAmount(s.TotalCommission),
		joinProviders(s.LowBalances),
		joinProviders(s.TopProviders),
	)
}

func joinProviders(ps []core.Provider) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// formatAmount renders cents as pounds, dropping the fraction for whole
// amounts.
func formatAmount(m core.Money) string {
	if m.Cents%100 == 0 {
		return strconv.FormatInt(m.Cents/100, 10)
	}
	return strconv.FormatFloat(m.Pounds(), 'f', 2, 64)
}
