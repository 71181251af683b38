// Package export writes the order history as parquet files partitioned by
// order date, either under a local directory or to an S3 bucket.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chrisdamba/foodcart/internal/cloudwriter"
	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

const dataFile = "data.parquet"

// OrderRecord is the flattened parquet row for one order.
type OrderRecord struct {
	ID              string  `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8"`
	OrderNumber     string  `parquet:"name=order_number, type=BYTE_ARRAY, convertedtype=UTF8"`
	CustomerName    string  `parquet:"name=customer_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	CustomerPhone   string  `parquet:"name=customer_phone, type=BYTE_ARRAY, convertedtype=UTF8"`
	DeliveryAddress string  `parquet:"name=delivery_address, type=BYTE_ARRAY, convertedtype=UTF8"`
	RestaurantID    string  `parquet:"name=restaurant_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Items           string  `parquet:"name=items_ordered, type=BYTE_ARRAY, convertedtype=UTF8"` // comma separated menu item ids
	ItemCount       int32   `parquet:"name=item_count, type=INT32"`
	TotalAmount     float64 `parquet:"name=total_amount, type=DOUBLE"`
	Status          string  `parquet:"name=status, type=BYTE_ARRAY, convertedtype=UTF8"`
	OrderDate       string  `parquet:"name=order_date, type=BYTE_ARRAY, convertedtype=UTF8"`
	CreatedAt       int64   `parquet:"name=created_at, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
}

func NewOrderRecord(o *models.Order) OrderRecord {
	var createdAt int64
	if !o.CreatedAt.IsZero() {
		createdAt = o.CreatedAt.UnixMilli()
	}
	return OrderRecord{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		DeliveryAddress: o.DeliveryAddress,
		RestaurantID:    o.RestaurantID,
		Items:           strings.Join(o.Items, ","),
		ItemCount:       int32(len(o.Items)),
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		OrderDate:       o.OrderDate,
		CreatedAt:       createdAt,
	}
}

// partition returns the hive-style directory for an order, derived from its
// order date or, failing that, its creation time.
func partition(o *models.Order) string {
	day, err := time.Parse(models.OrderDateLayout, o.OrderDate)
	if err != nil {
		day = o.CreatedAt
	}
	if day.IsZero() {
		return "year=unknown"
	}
	return fmt.Sprintf("year=%d/month=%02d/day=%02d", day.Year(), day.Month(), day.Day())
}

// ParquetExporter writes orders either below basePath/folder on the local
// disk, or below folder in bucket when a cloud writer factory is set.
type ParquetExporter struct {
	basePath string
	folder   string
	bucket   string
	factory  cloudwriter.CloudWriterFactory
	logger   logrus.FieldLogger
}

func NewLocalExporter(basePath, folder string, logger logrus.FieldLogger) *ParquetExporter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ParquetExporter{basePath: basePath, folder: folder, logger: logger}
}

func NewCloudExporter(factory cloudwriter.CloudWriterFactory, bucket, folder string, logger logrus.FieldLogger) *ParquetExporter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ParquetExporter{folder: folder, bucket: bucket, factory: factory, logger: logger}
}

// New selects the exporter for cfg.OutputDestination.
func New(ctx context.Context, cfg *models.Config, logger logrus.FieldLogger) (*ParquetExporter, error) {
	switch cfg.OutputDestination {
	case "local", "":
		return NewLocalExporter(cfg.OutputPath, cfg.OutputFolder, logger), nil
	case "s3":
		factory, err := cloudwriter.NewS3WriterFactory(ctx, cfg.S3Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}
		return NewCloudExporter(factory, cfg.S3Bucket, cfg.OutputFolder, logger), nil
	default:
		return nil, fmt.Errorf("unsupported output destination: %s", cfg.OutputDestination)
	}
}

// Export writes one parquet file per order-date partition and returns the
// written locations, sorted.
func (p *ParquetExporter) Export(ctx context.Context, orders []*models.Order) ([]string, error) {
	groups := make(map[string][]*models.Order)
	for _, o := range orders {
		key := partition(o)
		groups[key] = append(groups[key], o)
	}
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if p.factory == nil {
		p.cleanup()
	}

	written := make([]string, 0, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		location, err := p.writePartition(ctx, key, groups[key])
		if err != nil {
			return written, err
		}
		p.logger.WithFields(logrus.Fields{
			"location": location,
			"orders":   len(groups[key]),
		}).Info("exported partition")
		written = append(written, location)
	}
	return written, nil
}

func (p *ParquetExporter) writePartition(ctx context.Context, key string, orders []*models.Order) (string, error) {
	fw, location, err := p.createFile(ctx, key)
	if err != nil {
		return "", err
	}

	pw, err := writer.NewParquetWriter(fw, new(OrderRecord), 4)
	if err != nil {
		fw.Close()
		return "", fmt.Errorf("failed to create ParquetWriter: %w", err)
	}
	for _, o := range orders {
		if err := pw.Write(NewOrderRecord(o)); err != nil {
			fw.Close()
			return "", fmt.Errorf("failed to write order %s: %w", o.OrderNumber, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return "", fmt.Errorf("failed to finish %s: %w", location, err)
	}
	if err := fw.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", location, err)
	}
	return location, nil
}

func (p *ParquetExporter) createFile(ctx context.Context, key string) (source.ParquetFile, string, error) {
	if p.factory != nil {
		objectPath := path.Join(p.folder, key, dataFile)
		cw, err := p.factory.NewWriter(ctx, p.bucket, objectPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create cloud writer: %w", err)
		}
		return NewCloudParquetFile(cw), "s3://" + path.Join(p.bucket, objectPath), nil
	}

	dir := filepath.Join(p.basePath, p.folder, filepath.FromSlash(key))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, "", err
	}
	filePath := filepath.Join(dir, dataFile)
	fw, err := local.NewLocalFileWriter(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create %s: %w", filePath, err)
	}
	return fw, filePath, nil
}

// cleanup removes parquet files left by a previous local export.
func (p *ParquetExporter) cleanup() {
	root := filepath.Join(p.basePath, p.folder)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".parquet" {
			return os.Remove(path)
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		p.logger.WithError(err).Warn("error cleaning up parquet files")
	}
}

// CloudParquetFile lets the parquet writer stream into a CloudWriter. It is
// write-only.
type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func NewCloudParquetFile(cw cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cw}
}

func (c *CloudParquetFile) Open(string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Create(string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	default:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read([]byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (int, error) {
	n, err := c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}
