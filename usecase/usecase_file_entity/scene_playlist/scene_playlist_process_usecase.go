package scene_playlist

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nine-muses/cuesong/domain"
	"github.com/nine-muses/cuesong/domain/domain_file_entity"
	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_interface"
	"github.com/nine-muses/cuesong/domain/domain_file_entity/scene_playlist/scene_playlist_models"
	"github.com/nine-muses/cuesong/domain/domain_util"
	"github.com/nine-muses/cuesong/usecase/usecase_file_entity/scene_playlist/scene_playlist_provider"
)

// PlaylistProcessingUsecase 目录扫描：遍历媒体目录，对每个候选文件执行提取并入库
type PlaylistProcessingUsecase struct {
	registry     *scene_playlist_provider.Registry
	detector     domain_file_entity.FileDetector
	playlistRepo scene_playlist_interface.PlaylistRepository
	scanRepo     domain.BaseRepository[scene_playlist_models.ScanRecordMetadata]
	extract      *PlaylistExtractUsecase
	workerPool   chan struct{}
	scanTimeout  time.Duration

	scanMutex   sync.RWMutex
	currentProg *domain_util.TaskProgress
	scanStartAt time.Time
	scanRunning bool
}

func NewPlaylistProcessingUsecase(
	registry *scene_playlist_provider.Registry,
	detector domain_file_entity.FileDetector,
	playlistRepo scene_playlist_interface.PlaylistRepository,
	scanRepo domain.BaseRepository[scene_playlist_models.ScanRecordMetadata],
	timeoutMinutes int,
) *PlaylistProcessingUsecase {
	workerCount := runtime.NumCPU() * 4
	scanTimeout := time.Duration(timeoutMinutes) * time.Minute

	return &PlaylistProcessingUsecase{
		registry:     registry,
		detector:     detector,
		playlistRepo: playlistRepo,
		scanRepo:     scanRepo,
		extract:      NewPlaylistExtractUsecase(registry, scanTimeout),
		workerPool:   make(chan struct{}, workerCount),
		scanTimeout:  scanTimeout,
	}
}

// StartScan 建立新的进度会话并执行扫描，同一时间只允许一个扫描任务
func (uc *PlaylistProcessingUsecase) StartScan(ctx context.Context, directoryPaths []string) error {
	uc.scanMutex.Lock()
	if uc.scanRunning {
		uc.scanMutex.Unlock()
		return errors.New("扫描任务已在进行中")
	}
	taskProg := &domain_util.TaskProgress{ID: primitive.NewObjectID().Hex()}
	uc.currentProg = taskProg
	uc.scanStartAt = time.Now()
	uc.scanRunning = true
	uc.scanMutex.Unlock()

	defer func() {
		uc.scanMutex.Lock()
		uc.scanRunning = false
		uc.scanMutex.Unlock()
	}()

	return uc.ProcessDirectories(ctx, directoryPaths, taskProg)
}

// GetScanProgress 返回当前或最近一次扫描的进度快照
func (uc *PlaylistProcessingUsecase) GetScanProgress() (*domain_util.TaskProgressSnapshot, time.Time) {
	uc.scanMutex.RLock()
	defer uc.scanMutex.RUnlock()

	if uc.currentProg == nil {
		return &domain_util.TaskProgressSnapshot{Status: "idle"}, time.Time{}
	}

	total, walked, processed, playlists, status := uc.currentProg.Snapshot()
	var percent float32
	if total > 0 {
		percent = float32(processed) / float32(total)
	}
	return &domain_util.TaskProgressSnapshot{
		ID:             uc.currentProg.ID,
		Status:         status,
		TotalFiles:     total,
		WalkedFiles:    walked,
		ProcessedFiles: processed,
		PlaylistsFound: playlists,
		Progress:       percent,
	}, uc.scanStartAt
}

// ProcessDirectories 扫描给定目录集合。所有文件处理完后写入一条扫描归档记录。
func (uc *PlaylistProcessingUsecase) ProcessDirectories(
	ctx context.Context,
	directoryPaths []string,
	taskProg *domain_util.TaskProgress,
) error {
	ctx, cancel := context.WithTimeout(ctx, uc.scanTimeout)
	defer cancel()

	startedAt := time.Now()
	taskProg.SetStatus("processing")

	// 目录统一转绝对路径，Provider只接受绝对路径
	absPaths := make([]string, 0, len(directoryPaths))
	for _, dir := range directoryPaths {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			log.Printf("目录路径解析失败 %s: %v", dir, err)
			continue
		}
		absPaths = append(absPaths, absDir)
	}

	// 后缀集在扫描开始时取一次快照
	suffixSet := uc.supportedSuffixSet()

	// 预统计候选文件数，供进度接口计算百分比
	totalFiles := 0
	for _, dir := range absPaths {
		count, err := uc.fastCountCandidates(dir, suffixSet)
		if err != nil {
			log.Printf("统计候选文件数失败 %s: %v", dir, err)
			continue
		}
		totalFiles += count
	}
	taskProg.AddTotalFiles(totalFiles)

	var wgFile sync.WaitGroup
	errChan := make(chan error, 100)

	for _, dir := range absPaths {
		walkErr := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				log.Printf("访问路径 %s 出错: %v", path, err)
				return nil
			}
			if info.IsDir() {
				return nil
			}
			atomic.AddInt32(&taskProg.WalkedFiles, 1)

			if !uc.shouldProcess(path, suffixSet) {
				return nil
			}

			wgFile.Add(1)
			go uc.processFile(ctx, path, &wgFile, errChan, taskProg)
			return nil
		})
		if walkErr != nil {
			log.Printf("文件夹%v，文件遍历错误: %v，请检查该文件夹是否存在", dir, walkErr)
		}
	}

	wgFile.Wait()
	close(errChan)

	var finalErr error
	errCount := 0
	for procErr := range errChan {
		errCount++
		if finalErr == nil {
			finalErr = procErr
		}
	}
	if errCount > 0 {
		log.Printf("扫描期间发生 %d 个错误，首个错误: %v", errCount, finalErr)
	}

	status := "completed"
	if finalErr != nil {
		status = "completed_with_errors"
	}
	taskProg.SetStatus(status)

	total, walked, processed, playlists, _ := taskProg.Snapshot()
	log.Printf("目录扫描完成: 候选 %d, 遍历 %d, 处理 %d, 播放列表 %d",
		total, walked, processed, playlists)

	record := &scene_playlist_models.ScanRecordMetadata{
		ID:             primitive.NewObjectID(),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
		DirectoryPath:  strings.Join(absPaths, "; "),
		StartedAt:      startedAt,
		FinishedAt:     time.Now(),
		WalkedFiles:    walked,
		ProcessedFiles: processed,
		PlaylistsFound: playlists,
		Status:         status,
	}
	if err := uc.scanRepo.Create(context.WithoutCancel(ctx), record); err != nil {
		log.Printf("保存扫描记录失败: %v", err)
	}

	return finalErr
}

func (uc *PlaylistProcessingUsecase) processFile(
	ctx context.Context,
	path string,
	wg *sync.WaitGroup,
	errChan chan<- error,
	taskProg *domain_util.TaskProgress,
) {
	defer wg.Done()

	// 上下文取消检查
	select {
	case <-ctx.Done():
		errChan <- ctx.Err()
		return
	default:
	}

	// 获取工作槽
	select {
	case uc.workerPool <- struct{}{}:
		defer func() { <-uc.workerPool }()
	case <-ctx.Done():
		errChan <- ctx.Err()
		return
	}

	playlist, err := uc.extract.ExtractFromPath(ctx, path)
	if err != nil {
		log.Printf("播放列表提取失败: %s | %v", path, err)
		errChan <- fmt.Errorf("播放列表提取失败 %s: %w", path, err)
		return
	}
	atomic.AddInt32(&taskProg.ProcessedFiles, 1)

	if playlist == nil {
		// 候选文件不承载播放列表，正常跳过
		return
	}

	if err := uc.playlistRepo.Upsert(ctx, playlist); err != nil {
		log.Printf("播放列表写入失败: %s | %v", path, err)
		errChan <- fmt.Errorf("数据库写入失败 %s: %w", path, err)
		return
	}
	atomic.AddInt32(&taskProg.PlaylistsFound, 1)
}

func (uc *PlaylistProcessingUsecase) supportedSuffixSet() map[string]bool {
	set := make(map[string]bool)
	for _, suffix := range uc.registry.SupportedSuffixes() {
		set[suffix] = true
	}
	return set
}

// shouldProcess 后缀命中启用来源且通过文件类型复核时才进入提取
func (uc *PlaylistProcessingUsecase) shouldProcess(path string, suffixSet map[string]bool) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !suffixSet[ext] {
		return false
	}

	if uc.detector == nil {
		return true
	}
	fileType, err := uc.detector.DetectMediaType(path)
	if err != nil {
		log.Printf("文件类型检测失败: %s | %v", path, err)
		return false
	}
	switch fileType {
	case domain_file_entity.Audio, domain_file_entity.Video, domain_file_entity.Playlist:
		return true
	}
	return false
}

func (uc *PlaylistProcessingUsecase) fastCountCandidates(rootPath string, suffixSet map[string]bool) (int, error) {
	count := 0
	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
			if suffixSet[ext] {
				count++
			}
		}
		return nil
	})
	return count, err
}
