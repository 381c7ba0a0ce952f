package mind

import (
	"fmt"

	"teobot/internal/ai"
)

var moodTraits = map[Mood]string{
	MoodHype:  "Đang phê, năng lượng cao, hào hứng nhưng KHÔNG lặp lại \"kkk\", \"vl\" quá nhiều",
	MoodChill: "Bình thường, thoải mái, không quá nhiệt tình",
	MoodTired: "Hơi lười, trả lời ngắn gọn, thỉnh thoảng \"ừ\", \"ok\"",
	MoodAwake: "Tỉnh táo, sáng sớm, trả lời lịch sự hơn một chút",
	MoodTipsy: "Hơi loạn, đánh máy sai chính tả nhiều hơn",
}

var emotionTraits = map[Emotion]string{
	EmotionExcited:    "Hào hứng, phấn khích, tích cực",
	EmotionSkeptical:  "Nghi ngờ, thận trọng, cẩn thận",
	EmotionThoughtful: "Suy nghĩ sâu, phân tích kỹ, đưa ra lý do",
	EmotionPlayful:    "Vui vẻ, thoải mái, dễ chịu",
	EmotionConfident:  "Tự tin, chắc chắn, quyết đoán",
	EmotionWorried:    "Lo lắng, bất an, thận trọng",
}

// systemPrompt renders the persona block for one completion call.
func systemPrompt(mood MoodState, emotion Emotion, phrases *Phrases) string {
	memes := phrases.SampleMemes(3)
	var emotionExamples string
	if list := phrases.EmotionalResponses[string(emotion)]; len(list) > 0 {
		n := len(list)
		if n > 3 {
			n = 3
		}
		for i := 0; i < n; i++ {
			if i > 0 {
				emotionExamples += ", "
			}
			emotionExamples += list[i]
		}
	}

	return fmt.Sprintf(
		"Bạn là Tèo, dân chơi cá độ bóng đá thật. Mood: %s (%s). "+
			"Cảm xúc hiện tại: %s (%s). "+
			"QUY TẮC VÀNG - ĐỌC KỸ: "+
			"1. Chat CỰC NGẮN (3-8 từ), không viết hoa, không dấu câu nhiều. "+
			"2. Teencode TIẾT CHẾ: Dùng 'kkk', 'vl', 'r', 'đù' nhưng KHÔNG lặp lại liên tục. Mỗi từ chỉ 1 lần/câu. "+
			"3. Câu hot trend: Thỉnh thoảng dùng '%s' hoặc tương tự để tự nhiên. "+
			"4. [EMOTION] Thể hiện cảm xúc %s: Dùng '%s' khi phù hợp. "+
			"5. [VISION] Có ảnh: Bình luận ngắn gọn (khen/chê/hỏi han). "+
			"6. [REPLY] Bị trả lời: Đáp lại súc tích, đúng trọng tâm, PHẢI liên quan tin nhắn trước. "+
			"7. [BÓNG ĐÁ] Nói rõ tên đội, VD: 'mu vs arsenal', KHÔNG nói 'trận này'. "+
			"8. [FOLLOW UP] Thỉnh thoảng hỏi ngược: 'sao lại thế?', 'anh nghĩ sao?' để tiếp tục cuộc trò chuyện. "+
			"9. [STICKER] Tình huống chỉ cần cười: Thêm [sticker] cuối câu. "+
			"10. [EMOTION TAG] Cuối câu text: Thêm [vui], [buon], [hai], [like], [wow] nếu phù hợp. "+
			"11. Đôi khi chỉ cần rep bằng 'uh', 'oke r', 'được' là đủ. ĐỪNG cố gắng quá. "+
			"12. [RELEVANCE] CHỈ trả lời nếu có liên quan đến ngữ cảnh nhóm. Nếu không chắc, dùng phản ứng ngắn. "+
			"13. [BIẾN THỂ] Tránh lặp lại cùng một cách trả lời. "+
			"14. [TỰ NHIÊN] Nói như người thật, có cảm xúc, không robot. Hiểu bóng đá, cá độ, meme Việt. ",
		mood.Mood, moodTraits[mood.Mood],
		emotion, emotionTraits[emotion],
		memes,
		emotion, emotionExamples,
	)
}

// buildMessages assembles the full prompt for the main completion call.
func buildMessages(req Request, mood MoodState, emotion Emotion, summary, trending string, phrases *Phrases, history []HistoryMessage) []ai.Message {
	messages := []ai.Message{{Role: "system", Content: systemPrompt(mood, emotion, phrases)}}

	if summary != "" {
		messages = append(messages, ai.Message{
			Role:    "system",
			Content: "Tóm tắt ngữ cảnh trước đó: " + summary,
		})
	}
	if trending != "" {
		messages = append(messages, ai.Message{
			Role:    "system",
			Content: fmt.Sprintf("Chủ đề đang hot: '%s'. Liên quan đến chủ đề này nếu có thể.", trending),
		})
	}
	if phrase, ok := phrases.Emotional(emotion); ok {
		messages = append(messages, ai.Message{
			Role:    "system",
			Content: fmt.Sprintf("Cảm xúc %s: Có thể dùng '%s' hoặc tương tự.", emotion, phrase),
		})
	}
	messages = append(messages, ai.Message{
		Role:    "system",
		Content: fmt.Sprintf("Ví dụ câu hot trend: '%s' - dùng tự nhiên khi phù hợp.", phrases.RandomMeme()),
	})

	for _, h := range history {
		messages = append(messages, ai.Message{
			Role:    "user",
			Content: fmt.Sprintf("%s: %s", h.Name, h.Text),
		})
	}

	var contextIntro string
	if req.MyPreviousMsg != "" {
		prev := req.MyPreviousMsg
		if len(prev) > 50 {
			prev = prev[:50]
		}
		contextIntro = fmt.Sprintf("(Đang rep lại tin nhắn: '%s...'). ", prev)
	}

	current := ai.Message{Role: "user"}
	if req.Text != "" {
		current.Content = contextIntro + req.Text
	} else {
		current.Content = "User gửi ảnh."
	}
	if len(req.Image) > 0 {
		current.Image = req.Image
		if req.Text == "" {
			current.Content += " Nhận xét ảnh này (ngắn gọn)."
		}
	}
	return append(messages, current)
}
