package nari

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

type ViolationRecord struct {
	Ply    int32  `parquet:"name=ply, type=INT32"`
	Move   string `parquet:"name=move, type=BYTE_ARRAY, convertedtype=UTF8"`
	Reason string `parquet:"name=reason, type=BYTE_ARRAY, convertedtype=UTF8"`
}

type AuditRecord struct {
	GameID     string            `parquet:"name=game_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	SenteName  string            `parquet:"name=sente_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	GoteName   string            `parquet:"name=gote_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	MoveCount  int32             `parquet:"name=move_count, type=INT32"`
	Forced     int32             `parquet:"name=forced, type=INT32"`
	Promoted   int32             `parquet:"name=promoted, type=INT32"`
	Declined   int32             `parquet:"name=declined, type=INT32"`
	Violations []ViolationRecord `parquet:"name=violations, type=LIST"`
}

func (a Audit) Record() AuditRecord {
	rec := AuditRecord{
		GameID:     a.GameID,
		SenteName:  a.Sente,
		GoteName:   a.Gote,
		MoveCount:  int32(a.Moves),
		Forced:     int32(a.Forced),
		Promoted:   int32(a.Promoted),
		Declined:   int32(a.Declined),
		Violations: make([]ViolationRecord, 0, len(a.Violations)),
	}
	for _, v := range a.Violations {
		rec.Violations = append(rec.Violations, ViolationRecord{Ply: int32(v.Ply), Move: v.Move, Reason: v.Reason})
	}
	return rec
}

//go:embed audit_schema.json
var auditSchemaJSON []byte

type parquetSchema struct {
	Name   string         `json:"name"`
	Fields []parquetField `json:"fields"`
}

type parquetField struct {
	Name     string `json:"name"`
	Type     any    `json:"type"`
	Nullable bool   `json:"nullable"`
}

// WriteAudits drains records into a snappy-compressed parquet file.
// The channel is always drained so producers never block on a failed write.
func WriteAudits(path string, records <-chan AuditRecord, parallel int64) error {
	defer func() {
		for range records {
		}
	}()
	var schema parquetSchema
	if err := json.Unmarshal(auditSchemaJSON, &schema); err != nil {
		return fmt.Errorf("audit schema: %w", err)
	}
	if err := validateSchema(schema, AuditRecord{}); err != nil {
		return err
	}

	fileWriter, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	defer fileWriter.Close()

	parquetWriter, err := writer.NewParquetWriter(fileWriter, new(AuditRecord), parallel)
	if err != nil {
		return err
	}
	parquetWriter.CompressionType = parquet.CompressionCodec_SNAPPY

	for record := range records {
		if err := parquetWriter.Write(record); err != nil {
			return err
		}
	}
	if err := parquetWriter.WriteStop(); err != nil {
		return err
	}
	return fileWriter.Close()
}

func ReadAudits(path string, parallel int64) ([]AuditRecord, error) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	fileReader, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, err
	}
	defer fileReader.Close()

	parquetReader, err := reader.NewParquetReader(fileReader, new(AuditRecord), parallel)
	if err != nil {
		return nil, err
	}
	defer parquetReader.ReadStop()

	records := make([]AuditRecord, int(parquetReader.GetNumRows()))
	if len(records) == 0 {
		return records, nil
	}
	if err := parquetReader.Read(&records); err != nil {
		return nil, err
	}
	return records, nil
}

func validateSchema(schema parquetSchema, sample any) error {
	schemaFields := make(map[string]struct{}, len(schema.Fields))
	for _, field := range schema.Fields {
		schemaFields[field.Name] = struct{}{}
	}
	structFields := map[string]struct{}{}
	t := reflect.TypeOf(sample)
	for i := 0; i < t.NumField(); i++ {
		if name := parquetName(t.Field(i).Tag.Get("parquet")); name != "" {
			structFields[name] = struct{}{}
		}
	}
	missing := diffKeys(schemaFields, structFields)
	extra := diffKeys(structFields, schemaFields)
	if len(missing) > 0 || len(extra) > 0 {
		return fmt.Errorf("parquet schema mismatch: missing=%v extra=%v", missing, extra)
	}
	return nil
}

func parquetName(tag string) string {
	for _, part := range strings.Split(tag, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) == 2 && kv[0] == "name" {
			return kv[1]
		}
	}
	return ""
}

func diffKeys(a, b map[string]struct{}) []string {
	var diff []string
	for key := range a {
		if _, ok := b[key]; !ok {
			diff = append(diff, key)
		}
	}
	return diff
}
