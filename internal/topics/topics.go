// Package topics is the fixed catalog of grade-10 chemistry topics.
package topics

import "strings"

// Card is a topic shown on the home screen.
type Card struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Cards lists the topics offered for focused review.
var Cards = []Card{
	{Name: "Cấu tạo nguyên tử", Description: "Hạt nhân, lớp vỏ, obitan", Icon: "⚛️"},
	{Name: "Bảng tuần hoàn", Description: "Chu kỳ, nhóm, quy luật", Icon: "📅"},
	{Name: "Liên kết hóa học", Description: "Cộng hóa trị, ion", Icon: "🔗"},
	{Name: "Phản ứng Redox", Description: "Số oxi hóa, cân bằng", Icon: "⚡"},
}

// Defaults are the topics a general quiz covers.
var Defaults = []string{
	"Cấu tạo nguyên tử",
	"Bảng tuần hoàn",
	"Liên kết hóa học",
	"Phản ứng Oxi hóa - khử",
	"Năng lượng hóa học",
}

// Lookup finds a card by name, ignoring case and surrounding space.
func Lookup(name string) (Card, bool) {
	name = strings.TrimSpace(name)
	for _, c := range Cards {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Card{}, false
}
