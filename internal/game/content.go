package game

import "math/rand"

// Ice-breaker content pools. Selection is uniform with replacement, so
// repeats across sessions are expected.

var questionSets = [][]string{
	{
		"ถ้าคุณเป็นสัตว์ คุณจะเป็นอะไรและทำไม? 🐾",
		"อาหารโปรดของคุณคืออะไร? 🍕",
		"ถ้าคุณมีพลังพิเศษ คุณอยากได้พลังอะไร? ⚡",
		"สถานที่ที่คุณอยากไปมากที่สุดคือที่ไหน? ✈️",
		"เพลงที่คุณชอบฟังตอนนี้คือเพลงอะไร? 🎵",
		"ถ้าคุณเป็นซูเปอร์ฮีโร่ คุณจะชื่ออะไร? 🦸‍♂️",
	},
	{
		"งานอดิเรกที่คุณชอบทำคืออะไร? 🎨",
		"ถ้าคุณสามารถพูดภาษาใหม่ได้ คุณอยากพูดภาษาอะไร? 🗣️",
		"หนังหรือซีรี่ย์ที่คุณชอบมากที่สุดคือเรื่องอะไร? 🎬",
		"ถ้าคุณมีเวลา 1 วันที่จะทำอะไรก็ได้ คุณจะทำอะไร? ⏰",
		"อาหารโปรดของคุณคืออะไร? 🍕",
		"สถานที่ที่คุณอยากไปมากที่สุดคือที่ไหน? ✈️",
	},
	{
		"ถ้าคุณมีพลังพิเศษ คุณอยากได้พลังอะไร? ⚡",
		"หนังหรือซีรี่ย์ที่คุณชอบมากที่สุดคือเรื่องอะไร? 🎬",
		"ถ้าคุณเป็นสัตว์ คุณจะเป็นอะไรและทำไม? 🐾",
		"เพลงที่คุณชอบฟังตอนนี้คือเพลงอะไร? 🎵",
		"งานอดิเรกที่คุณชอบทำคืออะไร? 🎨",
		"ถ้าคุณมีเวลา 1 วันที่จะทำอะไรก็ได้ คุณจะทำอะไร? ⏰",
	},
}

var activities = []string{
	"🎤 ร้องเพลงด้วยกัน 1 เพลง",
	"🎭 เล่นเกม charades (ทายคำ)",
	"📸 ถ่ายรูป selfie ด้วยกัน",
	"💃 แสดงท่าเต้นที่คุณชอบ",
	"🎨 วาดรูปของกันและกัน",
	"🤝 ทำ handshake แบบพิเศษ",
	"😄 เล่าเรื่องตลกให้กันฟัง",
	"🎪 เล่นเกม rock-paper-scissors",
	"🌟 แสดงความสามารถพิเศษของคุณ",
	"🎵 ฮัมเพลงให้อีกคนทาย",
}

func pickQuestionSet(rng *rand.Rand) []string {
	set := questionSets[rng.Intn(len(questionSets))]
	out := make([]string, len(set))
	copy(out, set)
	return out
}

func pickActivity(rng *rand.Rand) string {
	return activities[rng.Intn(len(activities))]
}
