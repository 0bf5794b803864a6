package sqls

import (
	"timeseries-aggregation/config"
)

//GetSQLInsertReport returns the SQL statement used to add a report to the history table
func GetSQLInsertReport() string {

	sql :=
		`INSERT INTO ` + config.GetHistoryTableName() + ` (
    description,
    export_type,
    output_path,
    inserted_timestamp
) VALUES (
    :description,
    :exportType,
    :outputPath,
    systimestamp
)`

	return sql
}

//GetSQLSelectReports returns the SQL statement used to list the report history
func GetSQLSelectReports() string {

	sql :=
		`SELECT
    description,
    export_type,
    output_path
FROM
    ` + config.GetHistoryTableName() + `
ORDER BY
    inserted_timestamp,
    rowid`

	return sql
}
