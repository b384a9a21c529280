package voice

import "github.com/solos99999/txt2voice/internal/tts"

// 性别标签。
const (
	GenderFemale = "female"
	GenderMale   = "male"
)

// Voice 描述一个语音包：属于且仅属于一个引擎。
type Voice struct {
	ID          string // 引擎内唯一标识，如 "zh-CN-XiaoxiaoNeural"
	Engine      string // 所属引擎标识
	DisplayName string
	Gender      string
}

// catalog 是内置语音包目录，按引擎分组。
// 引擎集合是封闭的，语音包随版本内置而不是运行时发现，
// 保证离线环境下引擎/语音列表仍然可用。
var catalog = map[string][]Voice{
	tts.EngineEdge: {
		{ID: "zh-CN-XiaoxiaoNeural", Engine: tts.EngineEdge, DisplayName: "晓晓（温柔女声）", Gender: GenderFemale},
		{ID: "zh-CN-XiaoyiNeural", Engine: tts.EngineEdge, DisplayName: "晓伊（甜美女声）", Gender: GenderFemale},
		{ID: "zh-CN-YunjianNeural", Engine: tts.EngineEdge, DisplayName: "云健（解说男声）", Gender: GenderMale},
		{ID: "zh-CN-YunxiNeural", Engine: tts.EngineEdge, DisplayName: "云希（少年男声）", Gender: GenderMale},
		{ID: "zh-CN-YunxiaNeural", Engine: tts.EngineEdge, DisplayName: "云夏（童声）", Gender: GenderMale},
		{ID: "zh-CN-YunyangNeural", Engine: tts.EngineEdge, DisplayName: "云扬（播音男声）", Gender: GenderMale},
		{ID: "zh-CN-liaoning-XiaobeiNeural", Engine: tts.EngineEdge, DisplayName: "晓北（东北方言）", Gender: GenderFemale},
		{ID: "zh-CN-shaanxi-XiaoniNeural", Engine: tts.EngineEdge, DisplayName: "晓妮（陕西方言）", Gender: GenderFemale},
	},
	tts.EngineSherpa: {
		{ID: "default", Engine: tts.EngineSherpa, DisplayName: "默认语音", Gender: GenderFemale},
		{ID: "female_warm", Engine: tts.EngineSherpa, DisplayName: "温暖女声", Gender: GenderFemale},
		{ID: "male_deep", Engine: tts.EngineSherpa, DisplayName: "深沉男声", Gender: GenderMale},
		{ID: "child_cute", Engine: tts.EngineSherpa, DisplayName: "可爱童声", Gender: GenderFemale},
		{ID: "professional", Engine: tts.EngineSherpa, DisplayName: "专业播音", Gender: GenderMale},
		{ID: "emotional", Engine: tts.EngineSherpa, DisplayName: "情感朗读", Gender: GenderFemale},
	},
	tts.EngineTencent: {
		{ID: "zhiyu", Engine: tts.EngineTencent, DisplayName: "智瑜（女声）", Gender: GenderFemale},
		{ID: "zhiling", Engine: tts.EngineTencent, DisplayName: "智聆（女声）", Gender: GenderFemale},
		{ID: "zhijing", Engine: tts.EngineTencent, DisplayName: "智靖（男声）", Gender: GenderMale},
	},
}
