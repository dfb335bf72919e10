package mcpserver

// RecordFormatContract describes the line-delimited JSON dataset that the
// dashboard loads.
const RecordFormatContract = `# Dataset Record Format

The dataset is a UTF-8 text file with one JSON object per line. Blank lines
are ignored. Any other line that fails to parse aborts the load.

## Required keys

| key                  | type            | meaning                                  |
|----------------------|-----------------|------------------------------------------|
| ` + "`tsne_x`" + `             | number          | horizontal projection coordinate         |
| ` + "`tsne_y`" + `             | number          | vertical projection coordinate           |
| ` + "`cluster_id`" + `         | 0..2147483647   | cluster membership                       |
| ` + "`interaction_amount`" + ` | number >= 0     | engagement metric, drives marker size    |

## Optional keys

| key              | default      | notes                                        |
|------------------|--------------|----------------------------------------------|
| ` + "`title`" + `          | "No title"   | truncated to 80 characters                   |
| ` + "`selftext`" + `       | ""           | truncated to 200 characters                  |
| ` + "`score`" + `          | 0            |                                              |
| ` + "`num_comments`" + `   | 0            |                                              |
| ` + "`subreddit`" + `      | "unknown"    | category; "All" is reserved                 |
| ` + "`created_utc`" + `    | null         | epoch seconds; unparseable values are null   |

## Marker size

    size = 3 + 25 * ln(1 + interaction_amount) / ln(1 + max_interaction)

where max_interaction is the largest value in the file.

## Example

` + "```" + `json
{"tsne_x": 1.2, "tsne_y": -0.4, "cluster_id": 3, "interaction_amount": 57, "title": "Go 1.25 released", "score": 50, "num_comments": 7, "subreddit": "golang", "created_utc": 1723000000}
` + "```" + `
`
