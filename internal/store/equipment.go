package store

import (
	"fmt"
	"strings"

	"github.com/Arjunreddypulugu/excel-with-formula/internal/model"
)

// GetEquipmentByIDs 批量查询设备记录，整次运行只发起这一次查询
// 返回的快照中，命中多条记录的标识取 id 最小的一条并记入 Duplicates；
// 未命中的标识不出现在结果里（缺席即未找到）
func (s *Store) GetEquipmentByIDs(ids []string) (*model.EquipmentSnapshot, error) {
	snapshot := &model.EquipmentSnapshot{
		Records: make(map[string]model.EquipmentRecord),
	}
	if len(ids) == 0 {
		return snapshot, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT equipment_id, equipment_type, model, machine_count
		FROM equipment
		WHERE equipment_id IN (%s)
		ORDER BY id
	`, placeholders)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query equipment: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	duplicated := make(map[string]bool)

	for rows.Next() {
		var record model.EquipmentRecord
		if err := rows.Scan(&record.EquipmentID, &record.EquipmentType, &record.Model, &record.MachineCount); err != nil {
			return nil, fmt.Errorf("failed to scan equipment record: %w", err)
		}

		if seen[record.EquipmentID] {
			if !duplicated[record.EquipmentID] {
				duplicated[record.EquipmentID] = true
				snapshot.Duplicates = append(snapshot.Duplicates, record.EquipmentID)
			}
			continue // 保留 id 最小的一条
		}
		seen[record.EquipmentID] = true
		snapshot.Records[record.EquipmentID] = record
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate equipment rows: %w", err)
	}

	return snapshot, nil
}

// UpsertEquipment 批量写入设备记录
// 同一 equipment_id 先删后插，保证目录侧不会因重复导入产生多条
func (s *Store) UpsertEquipment(records []model.EquipmentRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	deleteStmt, err := tx.Prepare(`DELETE FROM equipment WHERE equipment_id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer deleteStmt.Close()

	insertStmt, err := tx.Prepare(`
		INSERT INTO equipment (equipment_id, equipment_type, model, machine_count)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer insertStmt.Close()

	for _, r := range records {
		if strings.TrimSpace(r.EquipmentID) == "" {
			continue
		}
		if _, err := deleteStmt.Exec(r.EquipmentID); err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}
		if _, err := insertStmt.Exec(r.EquipmentID, r.EquipmentType, r.Model, r.MachineCount); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// EquipmentQueryOptions 设备目录查询选项
type EquipmentQueryOptions struct {
	EquipmentType *string
	Limit         int
	Offset        int
}

// ListEquipment 列出设备记录
func (s *Store) ListEquipment(opts EquipmentQueryOptions) ([]model.EquipmentRecord, error) {
	query := "SELECT equipment_id, equipment_type, model, machine_count FROM equipment WHERE 1=1"
	args := []interface{}{}

	if opts.EquipmentType != nil {
		query += " AND equipment_type = ?"
		args = append(args, *opts.EquipmentType)
	}

	query += " ORDER BY equipment_type, equipment_id"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	defer rows.Close()

	var records []model.EquipmentRecord
	for rows.Next() {
		var record model.EquipmentRecord
		if err := rows.Scan(&record.EquipmentID, &record.EquipmentType, &record.Model, &record.MachineCount); err != nil {
			return nil, fmt.Errorf("failed to scan equipment record: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// CountEquipment 统计目录记录数
func (s *Store) CountEquipment() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM equipment").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count equipment: %w", err)
	}
	return count, nil
}
