// Package metric keeps one CSV row per handled trap, in a file per day.
package metric

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultMetricFileNamePrefix = "trapstats"
	csvExtension                = "csv"
)

type Logic interface {
	GetFilePath() string
	ReadRecords() ([]Record, error)
	WriteRecord(record Record) error
}

type BizLogic struct {
	dirPath  string
	rwLocker sync.RWMutex
	now      func() time.Time
}

func NewLogic(dirPath string) Logic {
	return &BizLogic{
		dirPath: dirPath,
		now:     time.Now,
	}
}

// GetFilePath returns the file of the current day.
func (bl *BizLogic) GetFilePath() string {
	curTime := bl.now()
	return filepath.Join(bl.dirPath, fmt.Sprintf("%s_%d_%d_%d.%s",
		defaultMetricFileNamePrefix, curTime.Year(), curTime.Month(), curTime.Day(), csvExtension))
}

func (bl *BizLogic) ReadRecords() ([]Record, error) {
	var recordResultList []Record
	bl.rwLocker.RLock()
	defer bl.rwLocker.RUnlock()
	fp, err := os.Open(bl.GetFilePath())
	if err != nil {
		return recordResultList, errors.Wrap(err, "error while reading metric")
	}
	defer fp.Close()

	recordList, err := csv.NewReader(fp).ReadAll()
	if err != nil {
		return recordResultList, errors.Wrap(err, "error while reading metric")
	}
	for _, csvRecord := range recordList {
		record, err := parseRecord(csvRecord)
		if err != nil {
			return recordResultList, errors.Wrap(err, "error while parsing a metric record")
		}
		recordResultList = append(recordResultList, record)
	}
	return recordResultList, nil
}

func (bl *BizLogic) WriteRecord(record Record) error {
	if err := record.validate(); err != nil {
		return err
	}
	bl.rwLocker.Lock()
	defer bl.rwLocker.Unlock()
	record.Duration = record.EndTime.Sub(record.StartTime)

	if bl.dirPath != "" {
		if err := os.MkdirAll(bl.dirPath, 0750); err != nil {
			return errors.Wrap(err, "error while recording metric")
		}
	}
	fp, err := os.OpenFile(bl.GetFilePath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		return errors.Wrap(err, "error while recording metric")
	}
	defer fp.Close()
	csvWriter := csv.NewWriter(fp)
	if err := csvWriter.Write(record.marshalToCSV()); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}
