// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema names the tables and columns of the artifact store.

Repositories build their statements from these descriptors instead of string
literals, so a renamed column is a single edit. The DDL constants create the
three tables when missing and never alter existing ones.
*/
package schema

// SQLiteDDL creates the artifact tables in the local file store.
const SQLiteDDL = `
CREATE TABLE IF NOT EXISTS artifact_metadata (
    id              INTEGER PRIMARY KEY,
    title           TEXT,
    culture         TEXT,
    period          TEXT,
    century         TEXT,
    medium          TEXT,
    dimensions      TEXT,
    description     TEXT,
    department      TEXT,
    classification  TEXT,
    accessionyear   INTEGER,
    accessionmethod TEXT
);

CREATE TABLE IF NOT EXISTS artifact_media (
    objectid   INTEGER PRIMARY KEY REFERENCES artifact_metadata(id),
    imagecount INTEGER,
    mediacount INTEGER,
    colorcount INTEGER,
    rank       INTEGER,
    datebegin  INTEGER,
    dateend    INTEGER
);

CREATE TABLE IF NOT EXISTS artifact_colors (
    objectid INTEGER REFERENCES artifact_metadata(id),
    color    TEXT,
    spectrum TEXT,
    hue      TEXT,
    percent  REAL,
    css3     TEXT
);

CREATE INDEX IF NOT EXISTS idx_artifact_colors_objectid ON artifact_colors(objectid);
CREATE INDEX IF NOT EXISTS idx_artifact_metadata_classification ON artifact_metadata(classification);
`

// PostgresDDL creates the artifact tables in PostgreSQL.
const PostgresDDL = `
CREATE TABLE IF NOT EXISTS artifact_metadata (
    id              BIGINT PRIMARY KEY,
    title           TEXT,
    culture         TEXT,
    period          TEXT,
    century         TEXT,
    medium          TEXT,
    dimensions      TEXT,
    description     TEXT,
    department      TEXT,
    classification  TEXT,
    accessionyear   BIGINT,
    accessionmethod TEXT
);

CREATE TABLE IF NOT EXISTS artifact_media (
    objectid   BIGINT PRIMARY KEY REFERENCES artifact_metadata(id),
    imagecount BIGINT,
    mediacount BIGINT,
    colorcount BIGINT,
    rank       BIGINT,
    datebegin  BIGINT,
    dateend    BIGINT
);

CREATE TABLE IF NOT EXISTS artifact_colors (
    objectid BIGINT REFERENCES artifact_metadata(id),
    color    TEXT,
    spectrum TEXT,
    hue      TEXT,
    percent  DOUBLE PRECISION,
    css3     TEXT
);

CREATE INDEX IF NOT EXISTS idx_artifact_colors_objectid ON artifact_colors(objectid);
CREATE INDEX IF NOT EXISTS idx_artifact_metadata_classification ON artifact_metadata(classification);
`
