package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/solos99999/txt2voice/internal/audio"
	"github.com/solos99999/txt2voice/internal/config"
	"github.com/solos99999/txt2voice/internal/history"
	"github.com/solos99999/txt2voice/internal/logger"
	"github.com/solos99999/txt2voice/internal/synth"
	"github.com/solos99999/txt2voice/internal/tts"
	"github.com/solos99999/txt2voice/internal/ui"
	"github.com/solos99999/txt2voice/internal/voice"
)

func main() {
	configPath := flag.String("config", "configs/txt2voice.yaml", "配置文件路径")
	enginesPath := flag.String("engines", "", "引擎描述文件路径（默认取配置中的 engines_file）")
	debug := flag.Bool("debug", false, "输出调试级别日志")

	// 无界面模式
	text := flag.String("text", "", "一次性合成该文本后退出（不启动界面）")
	engineID := flag.String("engine", "", "合成使用的引擎（默认第一个启用的引擎）")
	voiceID := flag.String("voice", "", "合成使用的语音包（默认该引擎的第一个语音）")
	play := flag.Bool("play", false, "合成后自动播放")
	batchFile := flag.String("batch", "", "批量模式：按行读取文本文件，逐条合成")
	listVoices := flag.Bool("list-voices", false, "列出所有启用引擎及其语音包后退出")
	showHistory := flag.Int("history", 0, "显示最近 N 条合成历史后退出")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Log.Level = "debug"
	}

	if err := logger.Init(logger.Config{
		Level:     cfg.Log.Level,
		File:      cfg.Log.File,
		ErrorFile: cfg.Log.ErrorFile,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Infof("[main] txt2voice 启动中 (log_level=%s)", cfg.Log.Level)

	// 引擎/语音管理器：描述文件损坏时自动降级到内置集合，界面保持可用
	ef := cfg.TTS.EnginesFile
	if *enginesPath != "" {
		ef = *enginesPath
	}
	voices, cfgErr := voice.LoadManager(ef)
	if cfgErr != nil {
		logger.Warnf("[main] %v", cfgErr)
	}

	if *listVoices {
		printVoices(voices)
		return
	}

	engines := buildEngines(cfg)
	if closer, ok := engines.Sherpa.(*tts.SherpaEngine); ok {
		defer closer.Close()
	}

	store, err := history.Open(cfg.Output.HistoryDB)
	if err != nil {
		logger.Warnf("[main] 合成历史不可用: %v", err)
		store = nil
	} else {
		defer store.Close()
	}

	if *showHistory > 0 {
		printHistory(store, *showHistory)
		return
	}

	orch := synth.New(voices, engines, cfg.Output.Dir, store)

	switch {
	case *text != "":
		os.Exit(runOnce(orch, voices, *engineID, *voiceID, *text, *play))
	case *batchFile != "":
		os.Exit(runBatch(orch, voices, *engineID, *voiceID, *batchFile))
	default:
		os.Exit(runUI(voices, orch))
	}
}

// buildEngines 构建封闭的引擎集合。凭据缺失的云端引擎留空，
// 选中时由编排器报配置错误而不是启动失败。
func buildEngines(cfg *config.Config) synth.Engines {
	engines := synth.Engines{
		Edge:        tts.NewEdgeEngine(cfg.TTS.Edge.DefaultVoice),
		Sherpa:      tts.NewSherpaEngine(cfg.TTS.Sherpa.ModelDir, cfg.TTS.Sherpa.NumThreads, cfg.TTS.Sherpa.Speed),
		Placeholder: tts.NewPlaceholderEngine(),
	}

	if cfg.TTS.Tencent.SecretID != "" {
		tencent, err := tts.NewTencentEngine(tts.TencentOptions{
			SecretID:  cfg.TTS.Tencent.SecretID,
			SecretKey: cfg.TTS.Tencent.SecretKey,
			Region:    cfg.TTS.Tencent.Region,
		})
		if err != nil {
			logger.Warnf("[main] 腾讯云引擎不可用: %v", err)
		} else {
			engines.Tencent = tencent
		}
	}

	return engines
}

// resolveSelection 填充缺省的引擎/语音选择。
func resolveSelection(voices *voice.Manager, engineID, voiceID string) (string, string, error) {
	if engineID == "" {
		es := voices.Engines()
		if len(es) == 0 {
			return "", "", fmt.Errorf("没有可用引擎")
		}
		engineID = es[0].ID
	}
	if voiceID == "" {
		voiceID = voices.DefaultVoice(engineID)
	}
	return engineID, voiceID, nil
}

// runOnce 无界面一次性合成。
func runOnce(orch *synth.Orchestrator, voices *voice.Manager, engineID, voiceID, text string, play bool) int {
	engineID, voiceID, err := resolveSelection(voices, engineID, voiceID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := orch.Synthesize(ctx, synth.Request{Engine: engineID, Voice: voiceID, Text: text})
	if err != nil {
		fmt.Fprintf(os.Stderr, "合成失败: %v\n", err)
		return 1
	}

	fmt.Printf("已生成: %s（%.2fs, %d Hz）\n", res.Path, res.Duration.Seconds(), res.SampleRate)

	if play {
		player, err := audio.NewPlayer(1)
		if err != nil {
			fmt.Fprintf(os.Stderr, "播放设备不可用: %v\n", err)
			return 1
		}
		defer player.Close()
		if err := player.Play(ctx, res.Samples, res.SampleRate); err != nil && err != context.Canceled {
			fmt.Fprintf(os.Stderr, "播放失败: %v\n", err)
			return 1
		}
	}
	return 0
}

// runBatch 批量合成：按行读取文本文件，逐条串行合成。
// 单条失败不中断整个批次。
func runBatch(orch *synth.Orchestrator, voices *voice.Manager, engineID, voiceID, path string) int {
	engineID, voiceID, err := resolveSelection(voices, engineID, voiceID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "打开批量文件失败: %v\n", err)
		return 1
	}
	defer f.Close()

	ctx, cancel := signalContext()
	defer cancel()

	var total, failed int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		total++

		res, err := orch.Synthesize(ctx, synth.Request{Engine: engineID, Voice: voiceID, Text: line})
		if err != nil {
			failed++
			logger.Errorf("[batch] 第 %d 条失败: %v", total, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		fmt.Printf("[%d] %s\n", total, res.Path)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "读取批量文件失败: %v\n", err)
		return 1
	}

	fmt.Printf("批量完成: %d/%d 成功\n", total-failed, total)
	if failed > 0 {
		return 1
	}
	return 0
}

// runUI 启动交互界面。
func runUI(voices *voice.Manager, orch *synth.Orchestrator) int {
	player, err := audio.NewPlayer(1)
	if err != nil {
		logger.Warnf("[main] 播放设备不可用: %v", err)
		player = nil
	} else {
		defer player.Close()
	}

	sub := synth.NewSubmitter(orch)
	defer sub.Close()

	p := tea.NewProgram(ui.New(voices, sub, player), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "界面运行出错: %v\n", err)
		return 1
	}

	logger.Info("[main] txt2voice 已退出")
	return 0
}

func printVoices(voices *voice.Manager) {
	for _, e := range voices.Engines() {
		fmt.Printf("%s（%s）\n", e.DisplayName, e.ID)
		vs, err := voices.Voices(e.ID)
		if err != nil {
			continue
		}
		for _, v := range vs {
			fmt.Printf("  - %s: %s (%s)\n", v.ID, v.DisplayName, v.Gender)
		}
	}
}

func printHistory(store *history.Store, n int) {
	if store == nil {
		fmt.Fprintln(os.Stderr, "合成历史不可用")
		return
	}
	records, err := store.Recent(n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取历史失败: %v\n", err)
		return
	}
	for _, r := range records {
		fmt.Printf("%s  %s/%s  %.1fs  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Engine, r.Voice, float64(r.DurationMs)/1000, r.FilePath)
	}
}

// signalContext 返回收到 SIGINT/SIGTERM 时取消的 context。
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Infof("[main] 收到信号 %v，正在退出...", sig)
		cancel()
	}()
	return ctx, cancel
}
