package gateway

import (
	"fmt"
	"strings"

	"github.com/chemmaster/chemmaster/internal/topics"
)

// Quiz shape requested from the model.
const (
	QuizLength  = 20
	EasyCount   = 7
	MediumCount = 8
	HardCount   = 5
)

// TutorPersona is the system instruction for the chat tutor.
const TutorPersona = "Bạn là gia sư Hóa học lớp 10 chuyên nghiệp. Hãy trả lời các thắc mắc của học sinh một cách dễ hiểu, ngắn gọn, có ví dụ minh họa và luôn khuyến khích học sinh."

const quizSystemPrompt = "Bạn là giáo viên Hóa học lớp 10 soạn đề trắc nghiệm theo chương trình mới. Mỗi câu có đúng một đáp án đúng."

func buildQuizPrompt(topic string) string {
	var topicInstruction string
	if topic != "" {
		topicInstruction = "tập trung CHỈ VÀO CHỦ ĐỀ: " + topic
	} else {
		topicInstruction = "bao gồm các chủ đề: " + strings.Join(topics.Defaults, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hãy tạo %d câu hỏi trắc nghiệm Hóa học lớp 10 chương trình mới.\n", QuizLength)
	fmt.Fprintf(&b, "Nội dung %s.\n", topicInstruction)
	fmt.Fprintf(&b, "Phân bổ: %d câu Dễ, %d câu Trung bình, %d câu Khó.\n", EasyCount, MediumCount, HardCount)
	b.WriteString("Yêu cầu: Mỗi câu đúng được 5 điểm. Mỗi câu có 4 lựa chọn, correctIndex tính từ 0.\n")
	b.WriteString("Trả về định dạng JSON thuần túy, không kèm văn bản giải thích ngoài JSON.")
	return b.String()
}

func buildAnalysisPrompt(resultsJSON string) string {
	return "Phân tích kết quả làm bài của học sinh Hóa 10 dựa trên dữ liệu sau: " + resultsJSON + ".\n" +
		"Hãy đưa ra đánh giá chi tiết về điểm mạnh, điểm yếu và một lộ trình học tập cụ thể. Trả về JSON."
}

func buildSummaryPrompt(topic string) string {
	return "Hãy tóm tắt ngắn gọn chủ đề Hóa học lớp 10: " + topic + ".\n" +
		"Viết bằng ngôn ngữ dễ hiểu cho học sinh, gồm một đoạn tổng quan, các ý chính cần nhớ và một ví dụ minh họa. Trả về JSON."
}
