package dialogue

import (
	"fmt"
	"strings"

	"hr-faq-be/pkg/rag/language"
)

type messageKey int

const (
	msgVacationPrompt messageKey = iota
	msgResignationPrompt
	msgDepartmentPrompt
	msgVacationCancelled
	msgDepartmentCancelled
	msgResignationCancelled
	msgVacationBalance
	msgResignationContact
	msgEmployeeNotFound
	msgInvalidEmployeeID
	msgDirectoryUnavailable
	msgDepartmentSelected
	msgDepartmentInvalid
	msgDepartmentSame
	msgDepartmentContact
)

// message is what a transition wants to say; render turns it into text.
type message struct {
	key         messageKey
	employeeID  int64
	input       string
	employee    string
	days        int
	departments []string
	current     string
	currentHead string
	target      string
	targetHead  string
}

const (
	exitHintAR = "\n\n(اكتب \"q\" للخروج)"
	exitHintEN = "\n\n(Type \"q\" to exit)"
)

func bullets(names []string) string {
	lines := make([]string, len(names))
	for i, n := range names {
		lines[i] = "• " + n
	}
	return strings.Join(lines, "\n")
}

// render produces the user-facing text for m in lang. Anything other than
// English renders in Arabic.
func render(lang language.Code, m message) string {
	en := lang == language.English

	switch m.key {
	case msgVacationPrompt:
		if en {
			return "Please enter your employee ID to check your vacation balance." + exitHintEN
		}
		return "من فضلك أدخل رقم الموظف الخاص بك للاستعلام عن رصيد الإجازات." + exitHintAR

	case msgResignationPrompt:
		if en {
			return "Please enter your employee ID to process your resignation request." + exitHintEN
		}
		return "من فضلك أدخل رقم الموظف الخاص بك لمعالجة طلب الاستقالة." + exitHintAR

	case msgDepartmentPrompt:
		if en {
			return "Which department do you want to switch to?\n\nAvailable departments:\n" +
				bullets(m.departments) +
				"\n\nPlease type the department name exactly as written above." + exitHintEN
		}
		return "إلى أي قسم تريد الانتقال؟\n\nالأقسام المتاحة:\n" +
			bullets(m.departments) +
			"\n\nيرجى كتابة اسم القسم بالضبط كما هو مكتوب أعلاه." + exitHintAR

	case msgVacationCancelled:
		if en {
			return "Vacation query cancelled. You can now ask any other question."
		}
		return "تم إلغاء الاستعلام عن الإجازات. يمكنك الآن طرح أي سؤال آخر."

	case msgDepartmentCancelled:
		if en {
			return "Department change request cancelled. You can now ask any other question."
		}
		return "تم إلغاء طلب تغيير القسم. يمكنك الآن طرح أي سؤال آخر."

	case msgResignationCancelled:
		if en {
			return "Resignation request cancelled. You can now ask any other question."
		}
		return "تم إلغاء طلب الاستقالة. يمكنك الآن طرح أي سؤال آخر."

	case msgVacationBalance:
		if en {
			return fmt.Sprintf("Hello %s, you have %d vacation days remaining.", m.employee, m.days)
		}
		return fmt.Sprintf("مرحباً %s، لديك %d يوم إجازة متبقي.", m.employee, m.days)

	case msgResignationContact:
		if en {
			return fmt.Sprintf("Hello %s,\n\nTo submit your resignation request, please contact your department head:\n\n"+
				"👤 %s Department Head: %s\n\n"+
				"Your department head will guide you through the formal resignation procedures and required documentation.\n\n"+
				"We wish you the best in your future career endeavors.", m.employee, m.current, m.currentHead)
		}
		return fmt.Sprintf("مرحباً %s،\n\nلتقديم طلب الاستقالة، يرجى التوجه إلى رئيس قسمك:\n\n"+
			"👤 رئيس قسم %s: %s\n\n"+
			"سيقوم رئيس القسم بإرشادك خلال إجراءات الاستقالة الرسمية والوثائق المطلوبة.\n\n"+
			"نتمنى لك التوفيق في مسيرتك المهنية القادمة.", m.employee, m.current, m.currentHead)

	case msgEmployeeNotFound:
		if en {
			return fmt.Sprintf("Employee ID %d not found in the system. Please check the ID and try again.", m.employeeID) + exitHintEN
		}
		return fmt.Sprintf("رقم الموظف %d غير موجود في النظام. يرجى التحقق من الرقم والمحاولة مرة أخرى.", m.employeeID) + exitHintAR

	case msgInvalidEmployeeID:
		if en {
			return "Please enter a valid employee ID (numbers only)." + exitHintEN
		}
		return "يرجى إدخال رقم موظف صحيح (أرقام فقط)." + exitHintAR

	case msgDirectoryUnavailable:
		if en {
			return "We could not reach the employee directory right now. Please try again in a moment." + exitHintEN
		}
		return "تعذر الوصول إلى دليل الموظفين حالياً. يرجى المحاولة مرة أخرى بعد قليل." + exitHintAR

	case msgDepartmentSelected:
		if en {
			return fmt.Sprintf("Selected department: \"%s\".\nPlease enter your employee ID.", m.target) + exitHintEN
		}
		return fmt.Sprintf("تم اختيار قسم \"%s\".\nمن فضلك أدخل رقم الموظف الخاص بك.", m.target) + exitHintAR

	case msgDepartmentInvalid:
		if en {
			return fmt.Sprintf("Department \"%s\" not found.\n\nAvailable departments:\n", m.input) +
				bullets(m.departments) +
				"\n\nPlease choose the department name exactly as written above." + exitHintEN
		}
		return fmt.Sprintf("القسم \"%s\" غير موجود.\n\nالأقسام المتاحة:\n", m.input) +
			bullets(m.departments) +
			"\n\nيرجى اختيار اسم القسم بالضبط كما هو مكتوب أعلاه." + exitHintAR

	case msgDepartmentSame:
		if en {
			return fmt.Sprintf("You are already in the %s department. You cannot switch to the same department you are currently in.", m.current)
		}
		return fmt.Sprintf("أنت موجود بالفعل في قسم %s. لا يمكنك الانتقال إلى نفس القسم الذي تعمل به.", m.current)

	case msgDepartmentContact:
		if en {
			return fmt.Sprintf("Hello %s,\n\nTo transfer from %s department to %s department, you need to contact:\n\n"+
				"1. Your current department head: %s\n"+
				"2. Target department head: %s\n\n"+
				"Please coordinate with both parties to approve the transfer.",
				m.employee, m.current, m.target, m.currentHead, m.targetHead)
		}
		return fmt.Sprintf("مرحباً %s،\n\nللانتقال من قسم %s إلى قسم %s، تحتاج للتواصل مع:\n\n"+
			"1. رئيس قسمك الحالي: %s\n"+
			"2. رئيس القسم المراد الانتقال إليه: %s\n\n"+
			"يرجى التنسيق مع كلا الطرفين للموافقة على عملية النقل.",
			m.employee, m.current, m.target, m.currentHead, m.targetHead)
	}
	return ""
}

// MenuItem is one entry of the common-questions menu.
type MenuItem struct {
	ID   Trigger `json:"id"`
	Text string  `json:"text"`
}

var menu = map[language.Code][]MenuItem{
	language.Arabic: {
		{ID: TriggerVacation, Text: "كم لي من إجازات متبقية؟"},
		{ID: TriggerDepartment, Text: "أريد تغيير قسمي"},
		{ID: TriggerResignation, Text: "أريد تقديم استقالة"},
	},
	language.English: {
		{ID: TriggerVacation, Text: "How many vacation days do I have remaining?"},
		{ID: TriggerDepartment, Text: "I want to change my department"},
		{ID: TriggerResignation, Text: "I want to submit a resignation"},
	},
}

// CommonQuestions returns the menu in lang.
func CommonQuestions(lang language.Code) []MenuItem {
	items := menu[language.Arabic]
	if lang == language.English {
		items = menu[language.English]
	}
	out := make([]MenuItem, len(items))
	copy(out, items)
	return out
}

// MatchTrigger finds the menu entry whose text, in either language, is
// contained in text.
func MatchTrigger(text string) (Trigger, bool) {
	for _, trig := range []Trigger{TriggerVacation, TriggerDepartment, TriggerResignation} {
		for _, lang := range []language.Code{language.Arabic, language.English} {
			for _, item := range menu[lang] {
				if item.ID == trig && strings.Contains(text, item.Text) {
					return trig, true
				}
			}
		}
	}
	return "", false
}
